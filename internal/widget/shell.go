// Package widget is the interaction glue between a line-based terminal and
// the conversation controller: panel toggling, input dispatch, chip and cart
// commands. No conversation logic lives here.
package widget

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shoplite/chatwidget/internal/controller"
	"github.com/shoplite/chatwidget/internal/render"
)

// Shell runs the widget's read-eval loop.
type Shell struct {
	ctrl    *controller.Controller
	surface *render.TermRenderer
	in      io.Reader
	out     io.Writer
}

// NewShell wires the controller and its terminal surface to an input stream.
func NewShell(ctrl *controller.Controller, surface *render.TermRenderer, in io.Reader, out io.Writer) *Shell {
	return &Shell{ctrl: ctrl, surface: surface, in: in, out: out}
}

// Run blocks until the input stream ends, /quit, or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "聊天咨詢 — /toggle 開關面板　/chip N 送出建議　/add N 加入購物車　/reset 重置　/quit 離開")

	scanner := bufio.NewScanner(s.in)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "/quit":
			return nil
		case line == "/toggle":
			if s.ctrl.Toggle(ctx) {
				fmt.Fprintln(s.out, "（面板已開啟）")
			} else {
				fmt.Fprintln(s.out, "（面板已收起）")
			}
		case line == "/reset":
			s.ctrl.Reset(ctx)
		case strings.HasPrefix(line, "/chip"):
			s.selectChip(line)
		case strings.HasPrefix(line, "/add"):
			s.addToCart(line)
		case strings.HasPrefix(line, "/"):
			fmt.Fprintf(s.out, "未知指令：%s\n", line)
		case line == "":
			// Matches the widget contract: empty input is rejected silently.
		default:
			s.send(ctx, line)
		}
	}
}

func (s *Shell) send(ctx context.Context, line string) {
	if !s.ctrl.IsOpen() {
		fmt.Fprintln(s.out, "面板未開啟，先輸入 /toggle")
		return
	}
	if err := s.ctrl.Send(ctx, line); err != nil {
		if errors.Is(err, controller.ErrBusy) {
			fmt.Fprintln(s.out, "上一則訊息處理中，請稍候")
			return
		}
		fmt.Fprintln(s.out, "訊息傳送失敗，請再試一次")
	}
}

func (s *Shell) selectChip(line string) {
	chips := s.surface.Chips()
	index, ok := parseIndex(line, "/chip", len(chips))
	if !ok {
		fmt.Fprintf(s.out, "用法：/chip 1..%d\n", len(chips))
		return
	}
	chips[index].Select()
}

func (s *Shell) addToCart(line string) {
	cards := s.surface.Cards()
	index, ok := parseIndex(line, "/add", len(cards))
	if !ok {
		fmt.Fprintf(s.out, "用法：/add 1..%d\n", len(cards))
		return
	}
	cards[index].AddToCart()
	fmt.Fprintf(s.out, "已請求將「%s」加入購物車\n", cards[index].Product.Name)
}

// parseIndex extracts a 1-based index argument and converts it to 0-based.
func parseIndex(line, prefix string, count int) (int, bool) {
	arg := strings.TrimSpace(strings.TrimPrefix(line, prefix))
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > count {
		return 0, false
	}
	return n - 1, true
}

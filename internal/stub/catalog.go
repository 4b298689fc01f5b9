// Package stub implements a self-contained backend conforming to the chat
// widget's HTTP contract, for local development and tests. Recommendation is
// keyword-rule based over a seeded catalog; no external services.
package stub

// Product 商品目录条目
type Product struct {
	ID       string
	Name     string
	Price    float64
	Currency string
	ImageURL string
	Tags     []string
	Active   bool
}

// MatchType 关键词规则的匹配方式
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchPrefix   MatchType = "prefix"
	MatchContains MatchType = "contains"
)

// KeywordRule maps a trigger phrase to a canned reply and product ids.
// Higher priority wins when several rules match.
type KeywordRule struct {
	Trigger    string
	Match      MatchType
	ReplyText  string
	ProductIDs []string
	Priority   int
	Active     bool
}

// Synonym expands a term into equivalent spellings before rule matching.
type Synonym struct {
	Term     string
	Variants []string
}

// Catalog exposes product and rule lookup for the stub handlers.
type Catalog struct {
	products []Product
	rules    []KeywordRule
	synonyms []Synonym
}

// NewCatalog returns a Catalog preloaded with the supplied data.
func NewCatalog(products []Product, rules []KeywordRule, synonyms []Synonym) *Catalog {
	return &Catalog{
		products: append([]Product(nil), products...),
		rules:    append([]KeywordRule(nil), rules...),
		synonyms: append([]Synonym(nil), synonyms...),
	}
}

// Products returns the full product list.
func (c *Catalog) Products() []Product {
	return append([]Product(nil), c.products...)
}

// FindProduct looks up an active product by identifier.
func (c *Catalog) FindProduct(id string) (Product, bool) {
	for _, p := range c.products {
		if p.ID == id && p.Active {
			return p, true
		}
	}
	return Product{}, false
}

// Seed returns the demo catalog: a few audio and charging products with
// bilingual keyword rules.
func Seed() ([]Product, []KeywordRule, []Synonym) {
	products := []Product{
		{ID: "p1", Name: "真无线蓝牙耳机", Price: 299.00, Currency: "CNY", ImageURL: "https://via.placeholder.com/96", Tags: []string{"蓝牙", "耳机"}, Active: true},
		{ID: "p2", Name: "有线入耳式耳机", Price: 59.00, Currency: "CNY", ImageURL: "https://via.placeholder.com/96", Tags: []string{"有线", "耳机"}, Active: true},
		{ID: "p3", Name: "快充充電器 20W", Price: 129.00, Currency: "CNY", ImageURL: "https://via.placeholder.com/96", Tags: []string{"充電器", "Type-C"}, Active: true},
	}

	rules := []KeywordRule{
		{Trigger: "蓝牙耳机", Match: MatchContains, Priority: 100, ProductIDs: []string{"p1"}, ReplyText: "为你推荐以下蓝牙耳机：", Active: true},
		{Trigger: "藍牙耳機", Match: MatchContains, Priority: 100, ProductIDs: []string{"p1"}, ReplyText: "為你推薦以下藍牙耳機：", Active: true},
		{Trigger: "耳机", Match: MatchContains, Priority: 50, ProductIDs: []string{"p1", "p2"}, ReplyText: "以下耳机可供選擇：", Active: true},
		{Trigger: "耳機", Match: MatchContains, Priority: 50, ProductIDs: []string{"p1", "p2"}, ReplyText: "以下耳機可供選擇：", Active: true},
		{Trigger: "充電器", Match: MatchContains, Priority: 80, ProductIDs: []string{"p3"}, ReplyText: "這些充電器可能適合你：", Active: true},
		{Trigger: "充电器", Match: MatchContains, Priority: 80, ProductIDs: []string{"p3"}, ReplyText: "这些充电器可能适合你：", Active: true},
	}

	synonyms := []Synonym{
		{Term: "藍牙耳機", Variants: []string{"蓝牙耳机"}},
		{Term: "充電器", Variants: []string{"充电器"}},
		{Term: "耳機", Variants: []string{"耳机"}},
	}

	return products, rules, synonyms
}

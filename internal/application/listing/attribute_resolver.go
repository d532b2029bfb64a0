package listing

import (
	"strconv"
	"strings"

	"github.com/listbridge/backend/internal/domain/listing"
)

// ---------------------------------------------------------------------------
// Mapping Rules
// ---------------------------------------------------------------------------

// RuleKind discriminates the mapping rule variants
type RuleKind string

const (
	// RuleKindSourceField reads a nested field from the source product
	RuleKindSourceField RuleKind = "SOURCE_FIELD"
	// RuleKindConstant yields a fixed string
	RuleKindConstant RuleKind = "CONSTANT"
	// RuleKindFormula carries a literal expression string, passed through
	// unevaluated; this engine stores formulas, it never executes them
	RuleKindFormula RuleKind = "FORMULA"
	// RuleKindEditInGrid yields no automatic value; manual entry only
	RuleKindEditInGrid RuleKind = "EDIT_IN_GRID"
)

// MappingRule is a tagged union over the four rule variants. Exactly one of
// Path, Value and Expr is meaningful, selected by Kind.
type MappingRule struct {
	// Kind selects the variant
	Kind RuleKind
	// Path is the source field path for SOURCE_FIELD rules,
	// supporting one level of array indexing (e.g. "variants[0].sku")
	Path string
	// Value is the fixed string for CONSTANT rules
	Value string
	// Expr is the unevaluated expression for FORMULA rules
	Expr string
}

// SourceFieldRule creates a rule reading a nested source product field
func SourceFieldRule(path string) MappingRule {
	return MappingRule{Kind: RuleKindSourceField, Path: path}
}

// ConstantRule creates a rule yielding a fixed value
func ConstantRule(value string) MappingRule {
	return MappingRule{Kind: RuleKindConstant, Value: value}
}

// FormulaRule creates a rule carrying an unevaluated expression
func FormulaRule(expr string) MappingRule {
	return MappingRule{Kind: RuleKindFormula, Expr: expr}
}

// EditInGridRule creates a rule with no automatic value
func EditInGridRule() MappingRule {
	return MappingRule{Kind: RuleKindEditInGrid}
}

// RuleSet maps category -> field name -> rule. The DefaultCategory key holds
// rules applying to every category without a more specific entry.
type RuleSet map[string]map[string]MappingRule

// DefaultCategory is the RuleSet key for category-independent rules
const DefaultCategory = "*"

// Resolved field names
const (
	FieldCondition      = "condition"
	FieldIdentifierCode = "identifier_code"
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldHandlingTime   = "handling_time"
	FieldCategory       = "category"
)

// ---------------------------------------------------------------------------
// ResolvedAttributeSet
// ---------------------------------------------------------------------------

// ResolvedAttributeSet holds the concrete listing field values resolved for
// one product. Ephemeral: computed per invocation, never persisted.
type ResolvedAttributeSet struct {
	Condition      string
	IdentifierCode string
	Title          string
	Description    string
	HandlingDays   int
	CategoryID     string
	CategoryName   string
}

// ---------------------------------------------------------------------------
// Category Fallback
// ---------------------------------------------------------------------------

// Category is a marketplace category id/name pair
type Category struct {
	ID   string
	Name string
}

// categoryKeywords maps free-text product-type keywords to marketplace
// categories. Matched in order, first hit wins, so the table is a slice
// rather than a map to keep the fallback deterministic.
var categoryKeywords = []struct {
	keyword  string
	category Category
}{
	{"camera", Category{ID: "31388", Name: "Digital Cameras"}},
	{"lens", Category{ID: "3323", Name: "Camera Lenses & Filters"}},
	{"camcorder", Category{ID: "11724", Name: "Camcorders"}},
	{"laptop", Category{ID: "177", Name: "PC Laptops & Netbooks"}},
	{"desktop", Category{ID: "179", Name: "PC Desktops & All-In-Ones"}},
	{"monitor", Category{ID: "80053", Name: "Monitors"}},
	{"tablet", Category{ID: "171485", Name: "Tablets & eBook Readers"}},
	{"phone", Category{ID: "9355", Name: "Cell Phones & Smartphones"}},
	{"headphone", Category{ID: "112529", Name: "Headphones"}},
	{"speaker", Category{ID: "14990", Name: "Home Speakers & Subwoofers"}},
	{"watch", Category{ID: "31387", Name: "Wristwatches"}},
	{"drone", Category{ID: "179697", Name: "Camera Drones"}},
	{"printer", Category{ID: "1245", Name: "Printers"}},
	{"game", Category{ID: "139973", Name: "Video Games"}},
	{"console", Category{ID: "139971", Name: "Video Game Consoles"}},
}

// defaultCategory is used when no keyword matches the product type
var defaultCategory = Category{ID: "293", Name: "Consumer Electronics"}

// InferCategory maps a free-text product-type string to a marketplace
// category. This fallback is the primary category source in practice; an
// explicit category rule overrides it.
func InferCategory(productType string) Category {
	normalized := strings.ToLower(strings.TrimSpace(productType))
	if normalized == "" {
		return defaultCategory
	}
	for _, entry := range categoryKeywords {
		if strings.Contains(normalized, entry.keyword) {
			return entry.category
		}
	}
	return defaultCategory
}

// ---------------------------------------------------------------------------
// AttributeResolver
// ---------------------------------------------------------------------------

// AttributeResolver resolves configured mapping rules into concrete listing
// field values for a given product. Read-only, no side effects; a rule
// referencing a missing source field degrades to an empty string, and so
// does the absence of a rule. Callers decide whether empty is acceptable.
type AttributeResolver struct {
	rules RuleSet
}

// NewAttributeResolver creates a resolver over the configured rule set
func NewAttributeResolver(rules RuleSet) *AttributeResolver {
	if rules == nil {
		rules = RuleSet{}
	}
	return &AttributeResolver{rules: rules}
}

// Resolve resolves one field for a product. An explicit configured rule for
// the category wins over the DefaultCategory rule; no rule yields "".
func (r *AttributeResolver) Resolve(category, field string, product *listing.SourceProduct) string {
	rule, ok := r.lookup(category, field)
	if !ok {
		return ""
	}

	switch rule.Kind {
	case RuleKindSourceField:
		return resolvePath(product, rule.Path)
	case RuleKindConstant:
		return rule.Value
	case RuleKindFormula:
		// Formulas are stored as-is, never evaluated by this engine
		return rule.Expr
	case RuleKindEditInGrid:
		return ""
	default:
		return ""
	}
}

// ResolveAll resolves the full attribute set for a product. The category
// itself resolves first (explicit rule, else product-type fallback) and then
// scopes the remaining field lookups.
func (r *AttributeResolver) ResolveAll(p *listing.SourceProduct, defaultHandlingDays int) ResolvedAttributeSet {
	category := InferCategory(p.ProductType)
	if explicit := r.Resolve(DefaultCategory, FieldCategory, p); explicit != "" {
		category = Category{ID: explicit, Name: explicit}
	}

	attrs := ResolvedAttributeSet{
		Condition:      r.Resolve(category.ID, FieldCondition, p),
		IdentifierCode: r.Resolve(category.ID, FieldIdentifierCode, p),
		Title:          r.Resolve(category.ID, FieldTitle, p),
		Description:    r.Resolve(category.ID, FieldDescription, p),
		CategoryID:     category.ID,
		CategoryName:   category.Name,
		HandlingDays:   defaultHandlingDays,
	}

	if raw := r.Resolve(category.ID, FieldHandlingTime, p); raw != "" {
		if days, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && days >= 0 {
			attrs.HandlingDays = days
		}
	}

	return attrs
}

// lookup finds the rule for (category, field), falling back to the default
// category bucket
func (r *AttributeResolver) lookup(category, field string) (MappingRule, bool) {
	if byField, ok := r.rules[category]; ok {
		if rule, ok := byField[field]; ok {
			return rule, true
		}
	}
	if byField, ok := r.rules[DefaultCategory]; ok {
		if rule, ok := byField[field]; ok {
			return rule, true
		}
	}
	return MappingRule{}, false
}

// ---------------------------------------------------------------------------
// Source Field Paths
// ---------------------------------------------------------------------------

// resolvePath walks a dot-separated path over the source product, supporting
// one level of array indexing, e.g. "variants[0].sku" or "images[1].src".
// Unknown or out-of-range segments resolve to "".
func resolvePath(product *listing.SourceProduct, path string) string {
	if product == nil || path == "" {
		return ""
	}
	return walkDocument(productDocument(product), strings.Split(path, "."))
}

// walkDocument descends a nested document one segment at a time
func walkDocument(node any, segments []string) string {
	for _, segment := range segments {
		name, index, indexed := splitIndex(segment)

		doc, ok := node.(map[string]any)
		if !ok {
			return ""
		}
		node, ok = doc[name]
		if !ok {
			return ""
		}

		if indexed {
			items, ok := node.([]any)
			if !ok || index < 0 || index >= len(items) {
				return ""
			}
			node = items[index]
		}
	}
	return stringify(node)
}

// splitIndex parses "name[2]" into ("name", 2, true); plain names return
// indexed=false
func splitIndex(segment string) (string, int, bool) {
	open := strings.IndexByte(segment, '[')
	if open < 0 || !strings.HasSuffix(segment, "]") {
		return segment, 0, false
	}
	index, err := strconv.Atoi(segment[open+1 : len(segment)-1])
	if err != nil {
		return segment, 0, false
	}
	return segment[:open], index, true
}

// stringify renders a leaf value the way the source platform serializes it
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case []string:
		return strings.Join(v, ", ")
	default:
		return ""
	}
}

// productDocument projects the typed snapshot into the source platform's
// field naming so rule paths read the way merchants configured them
func productDocument(p *listing.SourceProduct) map[string]any {
	variants := make([]any, len(p.Variants))
	for i, v := range p.Variants {
		variants[i] = map[string]any{
			"id":                 v.ID,
			"sku":                v.SKU,
			"price":              v.Price.String(),
			"inventory_quantity": v.Quantity,
			"barcode":            v.Barcode,
			"weight":             v.Weight.String(),
			"weight_unit":        v.WeightUnit,
		}
	}

	images := make([]any, len(p.Images))
	for i, img := range p.Images {
		images[i] = map[string]any{"src": img.Src}
	}

	return map[string]any{
		"id":           p.ID,
		"title":        p.Title,
		"body_html":    p.BodyHTML,
		"vendor":       p.Vendor,
		"product_type": p.ProductType,
		"tags":         p.Tags,
		"status":       string(p.Status),
		"variants":     variants,
		"images":       images,
	}
}

package usecase

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultSynonyms groups interchangeable ingredient terms under a canonical key.
// Culinary English variants first, then English to Danish product names.
var defaultSynonyms = map[string][]string{
	"capsicum":            {"bell pepper", "pepper", "paprika"},
	"bell pepper":         {"capsicum", "pepper", "paprika"},
	"aubergine":           {"eggplant"},
	"eggplant":            {"aubergine"},
	"courgette":           {"zucchini"},
	"zucchini":            {"courgette"},
	"coriander":           {"cilantro"},
	"cilantro":            {"coriander"},
	"rocket":              {"arugula"},
	"arugula":             {"rocket"},
	"spring onion":        {"scallion", "green onion"},
	"scallion":            {"spring onion", "green onion"},
	"green onion":         {"spring onion", "scallion"},
	"minced beef":         {"ground beef", "beef mince"},
	"ground beef":         {"minced beef", "beef mince"},
	"chicken breast":      {"chicken fillet"},
	"prawns":              {"shrimp"},
	"shrimp":              {"prawns"},
	"double cream":        {"heavy cream", "whipping cream"},
	"heavy cream":         {"double cream", "whipping cream"},
	"single cream":        {"light cream"},
	"caster sugar":        {"superfine sugar", "fine sugar"},
	"icing sugar":         {"powdered sugar", "confectioners sugar"},
	"plain flour":         {"all-purpose flour", "flour"},
	"all-purpose flour":   {"plain flour", "flour"},
	"self-raising flour":  {"self-rising flour"},
	"bicarbonate of soda": {"baking soda"},
	"baking soda":         {"bicarbonate of soda"},

	"milk":    {"mælk"},
	"cheese":  {"ost"},
	"bread":   {"brød"},
	"butter":  {"smør"},
	"egg":     {"æg"},
	"eggs":    {"æg"},
	"chicken": {"kylling"},
	"beef":    {"oksekød"},
	"pork":    {"svinekød"},
	"fish":    {"fisk"},
	"potato":  {"kartoffel", "kartofler"},
	"tomato":  {"tomat", "tomater"},
	"onion":   {"løg"},
	"garlic":  {"hvidløg"},
	"carrot":  {"gulerod", "gulerødder"},
	"apple":   {"æble", "æbler"},
	"banana":  {"banan", "bananer"},
	"orange":  {"appelsin", "appelsiner"},
	"rice":    {"ris"},
	"pasta":   {"pasta"},
	"oil":     {"olie"},
	"salt":    {"salt"},
	"pepper":  {"peber"},
	"sugar":   {"sukker"},
	"flour":   {"mel"},
	"cream":   {"fløde"},
	"yogurt":  {"yoghurt"},
}

// SynonymResolver expands a term into its one-hop synonym set
type SynonymResolver struct {
	table map[string][]string
	keys  []string // sorted, for a stable reverse scan
}

// NewSynonymResolver builds a resolver from the built-in table plus extra groups.
// Extra groups extend existing entries rather than replacing them.
func NewSynonymResolver(extra map[string][]string) *SynonymResolver {
	table := make(map[string][]string, len(defaultSynonyms)+len(extra))
	for k, v := range defaultSynonyms {
		table[k] = append([]string(nil), v...)
	}
	for k, v := range extra {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		for _, s := range v {
			s = strings.ToLower(strings.TrimSpace(s))
			if s != "" {
				table[key] = append(table[key], s)
			}
		}
	}

	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &SynonymResolver{table: table, keys: keys}
}

// Synonyms returns term followed by its direct synonyms, then the key and
// values of every group that lists term. Duplicates are removed.
func (r *SynonymResolver) Synonyms(term string) []string {
	result := []string{term}
	seen := map[string]bool{term: true}
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	for _, s := range r.table[term] {
		add(s)
	}

	for _, key := range r.keys {
		if key == term {
			continue
		}
		values := r.table[key]
		if !slices.Contains(values, term) {
			continue
		}
		add(key)
		for _, s := range values {
			add(s)
		}
	}

	return result
}

// LoadSynonymFile reads extra synonym groups from a YAML mapping of term to list
func LoadSynonymFile(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read synonym file: %w", err)
	}

	var groups map[string][]string
	if err := yaml.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("failed to parse synonym file %s: %w", path, err)
	}
	return groups, nil
}

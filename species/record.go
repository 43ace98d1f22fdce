package species

import "github.com/lucasb-eyer/go-colorful"

// Record is the serializable form of a Type, used for rule snapshots.
type Record struct {
	Index      int       `yaml:"index"`
	Color      string    `yaml:"color"`
	ConvertsTo *int      `yaml:"converts_to,omitempty"`
	Catalysts  []int     `yaml:"catalysts,omitempty"`
	Profiles   []Profile `yaml:"profiles"`
}

// Records converts types to their serializable form.
func Records(types []Type) []Record {
	records := make([]Record, len(types))
	for i, t := range types {
		r := Record{Index: i, Profiles: t.Profiles}
		if c, ok := colorful.MakeColor(t.Color); ok {
			r.Color = c.Hex()
		}
		if t.Conversion.Converts {
			target := t.Conversion.Target
			r.ConvertsTo = &target
			for s, on := range t.Conversion.Catalysts {
				if on {
					r.Catalysts = append(r.Catalysts, s)
				}
			}
		}
		records[i] = r
	}
	return records
}

package notion

import (
	"bytes"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// Properties is an insertion-ordered mapping from property name to value.
// It encodes as a JSON object whose keys keep the order in which they were set.
type Properties struct {
	names  []string
	values map[string]PropertyValue
}

func NewProperties() *Properties {
	return &Properties{values: make(map[string]PropertyValue)}
}

// Set inserts or replaces a property. Replacing keeps its position.
func (p *Properties) Set(name string, v PropertyValue) {
	if p.values == nil {
		p.values = make(map[string]PropertyValue)
	}
	if _, ok := p.values[name]; !ok {
		p.names = append(p.names, name)
	}
	p.values[name] = v
}

func (p *Properties) Get(name string) (PropertyValue, bool) {
	if p == nil {
		return PropertyValue{}, false
	}
	v, ok := p.values[name]
	return v, ok
}

func (p *Properties) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// Names returns the property names in insertion order.
func (p *Properties) Names() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}

// Merge copies every property of other into p, overwriting existing names.
func (p *Properties) Merge(other *Properties) {
	for _, name := range other.Names() {
		v, _ := other.Get(name)
		p.Set(name, v)
	}
}

func (p *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range p.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.values[name])
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Properties) UnmarshalJSON(data []byte) error {
	iter := json.BorrowIterator(data)
	defer json.ReturnIterator(iter)

	out := NewProperties()
	iter.ReadMapCB(func(it *jsoniter.Iterator, name string) bool {
		var v PropertyValue
		it.ReadVal(&v)
		out.Set(name, v)
		return it.Error == nil
	})
	if iter.Error != nil {
		return fmt.Errorf("decode properties: %w", iter.Error)
	}

	*p = *out
	return nil
}

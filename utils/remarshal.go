package utils

import (
	"github.com/go-json-experiment/json"
)

// Remarshal copies input into output through its JSON form, e.g. to get a
// struct as the generic map a filter engine expects.
func Remarshal(input interface{}, output interface{}) error {
	b, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, output)
}

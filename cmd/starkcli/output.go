package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// print writes v in the configured output format. Values are rendered through their JSON
// form, so felts stay hex strings in every format.
func (c *cli) print(w io.Writer, v any) error {
	switch c.cfg.Output {
	case "json":
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "yaml":
		plain, err := toPlain(v)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(plain); err != nil {
			return err
		}
		return enc.Close()
	default:
		plain, err := toPlain(v)
		if err != nil {
			return err
		}
		return printTable(w, plain)
	}
}

func toPlain(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var plain any
	if err = json.Unmarshal(raw, &plain); err != nil {
		return nil, err
	}
	return plain, nil
}

// printTable shows objects as field/value rows and lists as one row per element. Nested
// values are shown as compact JSON.
func printTable(w io.Writer, v any) error {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)

	switch x := v.(type) {
	case map[string]any:
		table.SetHeader([]string{"Field", "Value"})
		for _, k := range slices.Sorted(maps.Keys(x)) {
			table.Append([]string{k, cell(x[k])})
		}
	case []any:
		table.SetHeader([]string{"#", "Value"})
		for i, e := range x {
			table.Append([]string{fmt.Sprint(i), cell(e)})
		}
	default:
		_, err := fmt.Fprintln(w, cell(v))
		return err
	}
	table.Render()
	return nil
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return fmt.Sprint(x)
	case bool:
		return fmt.Sprint(x)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}

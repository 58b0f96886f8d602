package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/kvesta/navi/pkg/vulndb"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

const (
	RuleWidth = 150

	FQDNWidth       = 46
	PluginNameWidth = 65

	placeholder = " [...]"
)

// Shorten collapses whitespace and, when the text is wider than width,
// keeps as many whole words as fit in front of the " [...]" marker.
// Hyphenated words may break after a hyphen. When not even the first
// word fits, only "[...]" is left.
func Shorten(text string, width int) string {
	text = strings.Join(strings.Fields(text), " ")

	if runewidth.StringWidth(text) <= width {
		return text
	}

	chunks := wordChunks(text)

	var (
		line []string
		n    int
	)
	for len(chunks) > 0 {
		w := runewidth.StringWidth(chunks[0])
		if n+w > width {
			break
		}
		line = append(line, chunks[0])
		n += w
		chunks = chunks[1:]
	}

	// a word wider than the whole line is cut to fill it
	if len(chunks) > 0 && runewidth.StringWidth(chunks[0]) > width {
		head := cutLong(chunks[0], width-n)
		line = append(line, head)
		n += runewidth.StringWidth(head)
	}

	pw := runewidth.StringWidth(placeholder)
	for len(line) > 0 {
		last := line[len(line)-1]
		if strings.TrimSpace(last) != "" && n+pw <= width {
			return strings.Join(line, "") + placeholder
		}
		n -= runewidth.StringWidth(last)
		line = line[:len(line)-1]
	}

	return strings.TrimLeft(placeholder, " ")
}

// wordChunks splits single spaced text into words and the spaces between
// them. Words break after a hyphen joining two letter runs, as in "well-known".
func wordChunks(text string) []string {
	var chunks []string

	for i, word := range strings.Split(text, " ") {
		if i > 0 {
			chunks = append(chunks, " ")
		}

		r := []rune(word)
		start := 0
		for j := range r {
			if r[j] == '-' && j > start && hyphenBreak(r, j) {
				chunks = append(chunks, string(r[start:j+1]))
				start = j + 1
			}
		}
		chunks = append(chunks, string(r[start:]))
	}

	return chunks
}

func hyphenBreak(r []rune, i int) bool {
	behind := (i >= 2 && isLetter(r[i-1]) && isLetter(r[i-2])) ||
		(i >= 3 && isLetter(r[i-1]) && r[i-2] == '-' && isLetter(r[i-3]))
	if !behind || i+2 >= len(r) || !isLetter(r[i+1]) {
		return false
	}

	return isLetter(r[i+2]) || (r[i+2] == '-' && i+3 < len(r) && isLetter(r[i+3]))
}

func isLetter(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

// cutLong returns the part of word that fills space columns, ending
// after its last hyphen when there is one
func cutLong(word string, space int) string {
	head := runewidth.Truncate(word, space, "")

	if i := strings.LastIndex(head, "-"); i > 0 && strings.Trim(head[:i], "-") != "" {
		head = head[:i+1]
	}

	return head
}

func Rule(w io.Writer, char string, n int) {
	fmt.Fprintln(w, strings.Repeat(char, n))
}

// AssetHeader prints the column header shared by the plugin style reports
func AssetHeader(w io.Writer) {
	fmt.Fprintf(w, "\n%-8s %-16s %-46s %-40s %s\n", "Plugin", "IP Address", "FQDN", "UUID", "Network UUID")
	Rule(w, "-", RuleWidth)
}

func AssetRow(w io.Writer, plugin, ip, fqdn, uuid, network string) {
	fmt.Fprintf(w, "%-8s %-16s %-46s %-40s %s\n", plugin, ip, Shorten(fqdn, FQDNWidth), uuid, network)
}

func NameHeader(w io.Writer) {
	fmt.Fprintf(w, "\n%-8s %-20s %-45s %-70s \n", "Plugin", "IP address", "UUID", "Plugin Name")
	Rule(w, "-", RuleWidth)
}

func NameRow(w io.Writer, plugin, ip, uuid, name string) {
	fmt.Fprintf(w, "%-8s %-20s %-45s %-70s\n", plugin, ip, uuid, Shorten(name, PluginNameWidth))
}

func ScanTimeHeader(w io.Writer) {
	fmt.Fprintf(w, "\n%-16s %-40s %-25s %-25s %s\n", "Asset IP", "Asset UUID", "Started", "Finished", "Scan UUID")
	Rule(w, "-", RuleWidth)
}

func ScanTimeRow(w io.Writer, ip, uuid, started, finished, scan string) {
	fmt.Fprintf(w, "%-16s %-40s %-25s %-25s %s\n", ip, uuid, started, finished, scan)
}

func GhostHeader(w io.Writer) {
	fmt.Fprintf(w, "\n%-11s %-15s %-45s %s\n", "Source", "IP", "FQDN", "First seen")
	Rule(w, "-", RuleWidth)
}

func GhostRow(w io.Writer, source, ip, fqdn, firstSeen string) {
	fmt.Fprintf(w, "%-11s %-15s %-45s %s\n", source, ip, fqdn, firstSeen)
}

// Dump prints a whole result set in the given format: table, json or yaml
func Dump(w io.Writer, res *vulndb.Result, format string) error {
	switch strings.ToLower(format) {
	case "", "table":
		return dumpTable(w, res)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(objects(res))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sequence(res)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q, use table, json or yaml", format)
	}
}

func dumpTable(w io.Writer, res *vulndb.Result) error {
	table := tablewriter.NewWriter(w)

	table.SetHeader(res.Columns)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, r := range res.Rows {
		table.Append(r)
	}

	table.Render()

	fmt.Fprintf(w, "(%d rows)\n", len(res.Rows))

	return nil
}

func objects(res *vulndb.Result) []map[string]string {
	objs := []map[string]string{}

	for _, r := range res.Rows {
		obj := make(map[string]string, len(res.Columns))
		for i, col := range res.Columns {
			obj[col] = r[i]
		}
		objs = append(objs, obj)
	}

	return objs
}

// sequence keeps the column order of every row, which a map would lose
func sequence(res *vulndb.Result) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}

	for _, r := range res.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for i, col := range res.Columns {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: col},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r[i]},
			)
		}
		seq.Content = append(seq.Content, m)
	}

	return seq
}

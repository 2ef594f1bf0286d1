package core

import (
	"fmt"
	"strings"

	"tunegrab/pkg/text"
)

// markers are the fixed visual ordinals for menu buttons. Candidate counts
// are clamped to this set so label lookup can never go out of range.
var markers = []string{
	"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣",
	"6️⃣", "7️⃣", "8️⃣", "9️⃣", "\U0001F51F",
}

// MarkerSetSize is the maximum number of candidates a menu can label.
const MarkerSetSize = 10

// DownloadPrefix tags callback payloads that resolve to an audio fetch.
const DownloadPrefix = "dl_"

// FindFullPrefix tags callback payloads that restart the search path with a
// stored title as a synthetic query.
const FindFullPrefix = "findfull_"

// ClampLimit bounds a search limit to the marker set size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultSearchLimit
	}
	if limit > MarkerSetSize {
		return MarkerSetSize
	}
	return limit
}

// BuildMenu renders candidates into a message body plus a button grid. Each
// button binds a freshly minted pending reference to its candidate's URL.
func BuildMenu(header string, candidates []Candidate, refs RefStore, width, titleBudget int) (string, *Menu, error) {
	if len(candidates) > MarkerSetSize {
		return "", nil, fmt.Errorf("%d candidates exceed the marker set of %d", len(candidates), MarkerSetSize)
	}
	if width <= 0 {
		width = DefaultMenuWidth
	}
	if titleBudget <= 0 {
		titleBudget = DefaultTitleBudget
	}

	var body strings.Builder
	body.WriteString(header)
	body.WriteString("\n\n")

	menu := &Menu{}
	var row []Button

	for i, c := range candidates {
		token := refs.Put(Target{Kind: TargetURL, Value: c.URL})

		body.WriteString(markers[i])
		body.WriteString(" ")
		body.WriteString(text.Truncate(c.Title, titleBudget))
		body.WriteString("\n")

		row = append(row, Button{Label: markers[i], Data: DownloadPrefix + token})
		if len(row) == width {
			menu.Rows = append(menu.Rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		menu.Rows = append(menu.Rows, row)
	}

	return body.String(), menu, nil
}

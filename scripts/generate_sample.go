package main

import (
	"encoding/json"
	"flag"
	"fmt"
	mrand "math/rand"
	"os"
	"strings"
	"time"
)

// recentItem mirrors the persisted recent-list record.
type recentItem struct {
	Type        string `json:"type"`
	Path        string `json:"path"`
	DisplayName string `json:"displayName"`
	LastOpened  int64  `json:"lastOpened"`
}

var diagramKinds = []string{
	"graph TD\n  A[Open] --> B{Markdown?}\n  B -->|yes| C[Render]\n  B -->|no| D[Reject]",
	"sequenceDiagram\n  participant U as User\n  participant V as Viewer\n  U->>V: open notes.md\n  V-->>U: rendered page",
	"pie title Sources\n  \"Files\" : 7\n  \"URLs\" : 3",
	"stateDiagram-v2\n  [*] --> Empty\n  Empty --> Showing: open\n  Showing --> Empty: close",
}

// Prints either a file-backend recent list (-mode recent, the default) or a
// long Markdown document with mermaid blocks (-mode doc).
func main() {
	mode := flag.String("mode", "recent", "recent or doc")
	n := flag.Int("n", 10, "items or sections to generate")
	flag.Parse()

	// Deterministic seed for reproducible output
	mr := mrand.New(mrand.NewSource(42))

	switch *mode {
	case "recent":
		writeRecent(mr, *n)
	case "doc":
		writeDoc(mr, *n)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(2)
	}
}

func writeRecent(mr *mrand.Rand, n int) {
	base := time.Now()
	items := make([]recentItem, 0, n)
	for i := 0; i < n; i++ {
		// Stagger timestamps backwards to look natural
		opened := base.Add(-time.Duration(45*i+mr.Intn(40)) * time.Minute).UnixMilli()
		name := fmt.Sprintf("sample-%02d.md", i+1)
		if mr.Float64() < 0.3 {
			url := "https://raw.githubusercontent.com/example/docs/main/" + name
			items = append(items, recentItem{Type: "URL", Path: url, DisplayName: name, LastOpened: opened})
			continue
		}
		path := "/tmp/mdviewer-samples/" + name
		items = append(items, recentItem{Type: "FILE", Path: path, DisplayName: name, LastOpened: opened})
	}
	list, err := json.Marshal(items)
	if err != nil {
		panic(err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]string{"recent_items": string(list)}); err != nil {
		panic(err)
	}
}

func writeDoc(mr *mrand.Rand, n int) {
	var b strings.Builder
	b.WriteString("# Sample document\n\nGenerated for exercising the viewer and preview server.\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "\n## Section %d\n\n", i+1)
		fmt.Fprintf(&b, "Paragraph %d with *emphasis*, `code` and a [link](https://example.com/%d).\n", i+1, i+1)
		if mr.Float64() < 0.5 {
			fmt.Fprintf(&b, "\n```mermaid\n%s\n```\n", diagramKinds[mr.Intn(len(diagramKinds))])
		} else {
			fmt.Fprintf(&b, "\n| key | value |\n|-----|-------|\n| n | %d |\n", mr.Intn(1000))
		}
	}
	fmt.Print(b.String())
}

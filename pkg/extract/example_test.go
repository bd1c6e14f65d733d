package extract_test

import (
	"fmt"

	"github.com/matzehuels/mindmap/pkg/extract"
)

func ExampleExtract() {
	response := "Of course! Here is the mind map:\n\n```json\n{\"Nature\": [\"roots\", \"leaves\"]}\n```\n"

	res, err := extract.Extract(response)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(res.Strategy, string(res.Raw))
	// Output:
	// fenced {"Nature": ["roots", "leaves"]}
}

func ExampleExtractMap() {
	m, res, err := extract.ExtractMap(`Sure: {"Nature": ["roots", "leaves"], "Cycle": "growth"}`)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(res.Strategy, m.Keys())
	// Output:
	// braces [Nature Cycle]
}

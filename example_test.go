package outline_test

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/tsawler/outline"
	"github.com/tsawler/outline/layout"
	"github.com/tsawler/outline/model"
)

// These examples mirror the README code samples. The ones that read files
// have no Output block and are only compiled.

func Example_outlineFromFile() {
	result, err := outline.Open("document.pdf").Outline()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(result.Title)
	for _, e := range result.Outline {
		fmt.Printf("%s %s (p.%d)\n", e.Level, e.Text, e.Page)
	}
}

func Example_withOptions() {
	profile, err := layout.LoadConfig("profile.yaml")
	if err != nil {
		log.Fatal(err)
	}

	result := outline.Open("document.pdf").
		Config(profile).
		Budget(5 * time.Second).
		OutlineOrFallback()
	_ = result
}

func Example_fromDocument() {
	doc := model.NewDocument()
	doc.Style.BodySize = 10
	doc.AddSection(&model.Section{Heading: &model.Heading{Text: "ABSTRACT", Page: 0, Style: model.Style{MaxSize: 16, Bold: true}}})
	doc.AddSection(&model.Section{Heading: &model.Heading{Text: "1. Introduction", Page: 0, Style: model.Style{MaxSize: 14}}})
	doc.AddSection(&model.Section{Heading: &model.Heading{Text: "1.1 Background", Page: 1, Style: model.Style{MaxSize: 12}}})
	doc.AddSection(&model.Section{Heading: &model.Heading{Text: "2. Methods", Page: 1, Style: model.Style{MaxSize: 14}}})

	result := outline.FromDocument(doc).OutlineOrFallback()
	if err := outline.EncodeJSON(os.Stdout, result); err != nil {
		log.Fatal(err)
	}
	// Output:
	// {
	//   "title": "ABSTRACT",
	//   "outline": [
	//     {
	//       "level": "H1",
	//       "text": "1. Introduction",
	//       "page": 1
	//     },
	//     {
	//       "level": "H2",
	//       "text": "1.1 Background",
	//       "page": 2
	//     },
	//     {
	//       "level": "H1",
	//       "text": "2. Methods",
	//       "page": 2
	//     }
	//   ]
	// }
}

func Example_fallback() {
	result := outline.FromDocument(model.NewDocument()).
		Filename("annual_report-2024.pdf").
		OutlineOrFallback()

	fmt.Println(result.Title, len(result.Outline))
	// Output: annual report 2024 0
}

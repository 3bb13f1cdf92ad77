// Package gotlqa is a translation quality-assurance engine.
//
// It reviews translated strings against their source: glossary terms are
// matched and suggested, the translation is validated for missing
// placeholders, numbers, whitespace, punctuation, case and markup, and
// changes against a previous revision are diffed. Similar segments can be
// looked up in a translation memory.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/gotlqa"
//	    "github.com/ZaguanLabs/gotlqa/glossary"
//	)
//
//	func main() {
//	    e, err := gotlqa.New(
//	        gotlqa.WithGlossary([]glossary.Entry{
//	            {ID: "1", SourceTerm: "heavy cavalry", TargetTerm: "cavalerie lourde"},
//	        }),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    res, err := e.Review(context.Background(), gotlqa.Unit{
//	        Source:      "Recruit {0} heavy cavalry.",
//	        Translation: "Recrutez de la heavy cavalry.",
//	        TargetLang:  "fr_FR",
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(res.NeedsReview) // true: {0} is missing
//	    fmt.Println(res.Suggested)   // Recrutez de la cavalerie lourde.
//	}
package gotlqa

package markup

import (
	"testing"
)

func TestExtractText(t *testing.T) {
	content := `<div>
		<p>Hello</p>
		<script>var x = 1;</script>
		<p data-no-translate>Skip me</p>
		<p>World <b>now</b></p>
	</div>`

	nodes, err := ExtractText(content)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}

	want := []string{"Hello", "World", "now"}
	if len(nodes) != len(want) {
		t.Fatalf("Expected %d nodes, got %d: %+v", len(want), len(nodes), nodes)
	}
	for i, w := range want {
		if nodes[i].Text != w {
			t.Errorf("node %d: expected %q, got %q", i, w, nodes[i].Text)
		}
		if nodes[i].Index != i {
			t.Errorf("node %d: expected index %d, got %d", i, i, nodes[i].Index)
		}
	}

	if nodes[0].Parent != "p" || nodes[0].Path != "div > p" {
		t.Errorf("Unexpected context for first node: %+v", nodes[0])
	}
	if nodes[2].Parent != "b" || nodes[2].Path != "div > p > b" {
		t.Errorf("Unexpected context for nested node: %+v", nodes[2])
	}
}

func TestExtractText_KeepsDuplicates(t *testing.T) {
	nodes, err := ExtractText("<p>Yes</p><p>Yes</p>")
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if len(nodes) != 2 {
		t.Errorf("Expected duplicates to be kept, got %d nodes", len(nodes))
	}
}

func TestPairText(t *testing.T) {
	pairs, srcCount, dstCount, err := PairText(
		"<h1>Title</h1><p>Body</p><p>Extra</p>",
		"<h1>Titre</h1><p>Corps</p>",
	)
	if err != nil {
		t.Fatalf("PairText failed: %v", err)
	}

	if srcCount != 3 || dstCount != 2 {
		t.Errorf("Expected counts 3/2, got %d/%d", srcCount, dstCount)
	}
	if len(pairs) != 2 {
		t.Fatalf("Expected 2 pairs, got %d", len(pairs))
	}
	if pairs[1].Source.Text != "Body" || pairs[1].Translation.Text != "Corps" {
		t.Errorf("Unexpected pair: %+v", pairs[1])
	}
}

package vocab

import (
	"reflect"
	"testing"
)

func defaultNormalizer() *Normalizer {
	return NewNormalizer(2, 30, nil)
}

func TestWords_BasicRussian(t *testing.T) {
	n := defaultNormalizer()

	got := n.Words("Привет, мир! Привет...")
	want := []string{"привет", "мир", "привет"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words = %v, want %v", got, want)
	}
}

func TestWords_RejectsLatinAndDigits(t *testing.T) {
	n := defaultNormalizer()

	cases := []string{"hello123", "2024", "hello", "12-34"}
	for _, text := range cases {
		if got := n.Words(text); len(got) != 0 {
			t.Errorf("Words(%q) = %v, want none", text, got)
		}
	}
}

func TestWords_MixedScriptLine(t *testing.T) {
	n := defaultNormalizer()

	// Latin runs act as separators; only the Cyrillic tokens survive.
	got := n.Words("see слово and ещё one")
	want := []string{"слово", "ещё"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words = %v, want %v", got, want)
	}
}

func TestWords_InternalHyphen(t *testing.T) {
	n := defaultNormalizer()

	got := n.Words("кот-пёс")
	want := []string{"кот-пёс"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words = %v, want %v", got, want)
	}
}

func TestWords_EdgeHyphensTrimmed(t *testing.T) {
	n := defaultNormalizer()

	got := n.Words("-слово- --- кто--то")
	want := []string{"слово"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words = %v, want %v (edge hyphens trimmed, double hyphen rejected)", got, want)
	}
}

func TestWords_LengthBounds(t *testing.T) {
	n := NewNormalizer(3, 5, nil)

	got := n.Words("я дом собака привет")
	// "я" (1) and "собака"/"привет" (6) fall outside [3, 5].
	want := []string{"дом"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words = %v, want %v", got, want)
	}
}

func TestWords_Stoplist(t *testing.T) {
	n := NewNormalizer(1, 30, []string{"и", "в", "НЕ"})

	got := n.Words("кот и пёс в доме не спят")
	want := []string{"кот", "пёс", "доме", "спят"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words = %v, want %v", got, want)
	}
}

func TestWords_StressMarksStripped(t *testing.T) {
	n := defaultNormalizer()

	// "приве́т" carries a combining acute accent over the е.
	got := n.Words("приве́т")
	want := []string{"привет"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words = %v, want %v", got, want)
	}
}

func TestWords_YoPreserved(t *testing.T) {
	n := defaultNormalizer()

	got := n.Words("Ёлка ещё")
	want := []string{"ёлка", "ещё"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words = %v, want %v", got, want)
	}
}

func TestWords_Empty(t *testing.T) {
	n := defaultNormalizer()

	if got := n.Words(""); got != nil {
		t.Errorf("Words(\"\") = %v, want nil", got)
	}
	if got := n.Words("   \n\t  "); got != nil {
		t.Errorf("Words(whitespace) = %v, want nil", got)
	}
}

func TestUnique(t *testing.T) {
	got := Unique([]string{"привет", "мир", "привет", "мир", "снег"})
	want := []string{"привет", "мир", "снег"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unique = %v, want %v", got, want)
	}
}

package pressmill

import (
	"errors"
	"reflect"
	"testing"
)

func TestParsePageRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{"single page", "3", []int{3}},
		{"simple span", "1-3", []int{1, 2, 3}},
		{"mixed spans and singles", "1-3,5,8-9", []int{1, 2, 3, 5, 8, 9}},
		{"out of order input sorts", "5,1-3", []int{1, 2, 3, 5}},
		{"overlap deduplicates", "1-3,2-4", []int{1, 2, 3, 4}},
		{"whitespace tolerated", " 2 , 4 - 5 ", []int{2, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParsePageRange(tt.input)
			if err != nil {
				t.Fatalf("ParsePageRange(%q) error = %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePageRange(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePageRangeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty input", "", ErrEmptyPageRange},
		{"blank input", "   ", ErrEmptyPageRange},
		{"empty element", "1,,3", ErrInvalidPageRange},
		{"descending span", "3-1", ErrInvalidPageRange},
		{"zero page", "0", ErrInvalidPageRange},
		{"negative span start", "-2", ErrInvalidPageRange},
		{"non-numeric", "a-b", ErrInvalidPageRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParsePageRange(tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParsePageRange(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestValidateLanguages(t *testing.T) {
	t.Parallel()

	if err := ValidateLanguages([]string{"en", "fr", "pt-BR"}); err != nil {
		t.Errorf("ValidateLanguages(valid tags) error = %v", err)
	}
	if err := ValidateLanguages(nil); err != nil {
		t.Errorf("ValidateLanguages(nil) error = %v", err)
	}
	err := ValidateLanguages([]string{"en", "not a tag"})
	if !errors.Is(err, ErrInvalidLanguage) {
		t.Errorf("ValidateLanguages(invalid tag) error = %v, want ErrInvalidLanguage", err)
	}
}

func TestFileSelector(t *testing.T) {
	t.Parallel()

	t.Run("nil selector matches everything", func(t *testing.T) {
		t.Parallel()
		var s *FileSelector
		if !s.Match("anything") {
			t.Error("nil selector should match")
		}
	})

	t.Run("empty patterns match everything", func(t *testing.T) {
		t.Parallel()
		s, err := NewFileSelector(nil)
		if err != nil {
			t.Fatalf("NewFileSelector(nil) error = %v", err)
		}
		if !s.Match("chapter-01") {
			t.Error("empty selector should match")
		}
	})

	t.Run("glob patterns filter names", func(t *testing.T) {
		t.Parallel()
		s, err := NewFileSelector([]string{"chapter-*", "intro"})
		if err != nil {
			t.Fatalf("NewFileSelector() error = %v", err)
		}
		for name, want := range map[string]bool{
			"chapter-01": true,
			"intro":      true,
			"appendix":   false,
		} {
			if got := s.Match(name); got != want {
				t.Errorf("Match(%q) = %v, want %v", name, got, want)
			}
		}
	})

	t.Run("invalid pattern returns ErrInvalidSelector", func(t *testing.T) {
		t.Parallel()
		_, err := NewFileSelector([]string{"[unclosed"})
		if !errors.Is(err, ErrInvalidSelector) {
			t.Errorf("error = %v, want ErrInvalidSelector", err)
		}
	})
}

func TestIsKnownTask(t *testing.T) {
	t.Parallel()

	for _, task := range AllTasks {
		if !IsKnownTask(task) {
			t.Errorf("IsKnownTask(%q) = false, want true", task)
		}
	}
	if IsKnownTask(TaskExport) {
		t.Error("IsKnownTask(export) = true; export is never a selectable build task")
	}
	if IsKnownTask("nonsense") {
		t.Error("IsKnownTask(nonsense) = true, want false")
	}
}

func TestDedupe(t *testing.T) {
	t.Parallel()

	got := dedupe([]string{"b", "a", "b", "c", "a"})
	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dedupe() = %v, want %v", got, want)
	}
}

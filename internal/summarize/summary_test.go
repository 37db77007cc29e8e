package summarize

import (
	"strings"
	"testing"

	"notionbot/internal/apperr"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		reply       string
		wantTitle   string
		wantBullets []string
		wantErr     bool
	}{
		{
			name:        "strict json",
			reply:       `{"title":"Заметка","bullets":["пункт1","пункт2"]}`,
			wantTitle:   "Заметка",
			wantBullets: []string{"пункт1", "пункт2"},
		},
		{
			name:        "fenced json",
			reply:       "```json\n{\"title\":\"T\",\"bullets\":[\"a\"]}\n```",
			wantTitle:   "T",
			wantBullets: []string{"a"},
		},
		{
			name:        "surrounding prose",
			reply:       "Вот результат: {\"title\": \" Купить молоко \", \"bullets\": [\"молоко\", \"\", \" хлеб \"]} надеюсь помог",
			wantTitle:   "Купить молоко",
			wantBullets: []string{"молоко", "хлеб"},
		},
		{
			name:        "too many bullets",
			reply:       `{"title":"T","bullets":["1","2","3","4","5","6","7","8","9"]}`,
			wantTitle:   "T",
			wantBullets: []string{"1", "2", "3", "4", "5", "6", "7"},
		},
		{name: "no json", reply: "извините, не могу", wantErr: true},
		{name: "broken json", reply: `{"title": "T", "bullets": [`, wantErr: true},
		{name: "empty title", reply: `{"title":"  ","bullets":["a"]}`, wantErr: true},
		{name: "missing bullets", reply: `{"title":"T"}`, wantErr: true},
		{name: "blank bullets", reply: `{"title":"T","bullets":[" ",""]}`, wantErr: true},
		{name: "wrong types", reply: `{"title":1,"bullets":"a"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse("test", tt.reply)
			if tt.wantErr {
				if !apperr.IsValidation(err) {
					t.Fatalf("expected ValidationError, got %v (%+v)", err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if strings.Join(got.Bullets, "|") != strings.Join(tt.wantBullets, "|") {
				t.Errorf("Bullets = %q, want %q", got.Bullets, tt.wantBullets)
			}
		})
	}
}

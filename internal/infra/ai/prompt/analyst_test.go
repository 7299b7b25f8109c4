package prompt

import (
	"strings"
	"testing"

	"github.com/bryanwahyu/ph-daily/internal/domain/products"
)

func TestParseEnrichment(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
		check   func(t *testing.T, pain string, competitors []string)
	}{
		{
			name: "plain object",
			in:   `{"pain_point":" Teams lose track of work ","competitors":["Jira","Asana"]}`,
			check: func(t *testing.T, pain string, competitors []string) {
				if pain != "Teams lose track of work" {
					t.Errorf("pain = %q", pain)
				}
				if len(competitors) != 2 {
					t.Errorf("competitors = %v", competitors)
				}
			},
		},
		{
			name: "fenced and too many competitors",
			in:   "```json\n{\"competitors\":[\"A\",\"\",\"B\",\"C\",\"D\"]}\n```",
			check: func(t *testing.T, pain string, competitors []string) {
				if strings.Join(competitors, ",") != "A,B,C" {
					t.Errorf("competitors = %v", competitors)
				}
			},
		},
		{name: "not json", in: "I think it is great", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := ParseEnrichment(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEnrichment: %v", err)
			}
			tt.check(t, e.PainPoint, e.Competitors)
		})
	}
}

func TestUserPromptMentionsProduct(t *testing.T) {
	p := products.Product{Name: "Linear", Description: "Issue tracking", Votes: 412, WebsiteURL: "https://linear.app"}
	got := GetUserPrompt(p)
	for _, want := range []string{"Linear", "Issue tracking", "412", "https://linear.app"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Category:") {
		t.Error("empty category should be omitted")
	}
}

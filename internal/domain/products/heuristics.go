package products

import (
	"fmt"
	"regexp"
	"strings"
)

// keywords compiles a case-insensitive whole-word matcher for the given terms.
func keywords(terms ...string) *regexp.Regexp {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

const (
	CategoryAI           = "AI-Powered Tools"
	CategoryProductivity = "Productivity Boosters"
	CategoryDeveloper    = "Developer Tools"
	CategoryDesign       = "Design & Creative Tools"
	CategoryProject      = "Project Management Tools"
	CategoryMarketing    = "Marketing Tools"
	CategoryEducation    = "Education & Learning"
	CategoryHealth       = "Health & Lifestyle"
	CategoryFinance      = "Finance & Business"
	CategoryEntertain    = "Entertainment"
	CategoryOther        = "Other Tools"
)

var (
	aiWords        = keywords("ai", "ml", "artificial intelligence", "machine learning", "gpt", "chatgpt", "claude", "llm")
	designWords    = keywords("design", "figma", "sketch", "adobe", "photoshop", "creative", "ui", "ux")
	devWords       = keywords("dev", "code", "coding", "git", "github", "developer", "developers", "programming", "api")
	projectWords   = keywords("project", "projects", "task", "tasks", "management", "agile", "scrum")
	marketingWords = keywords("marketing", "seo", "social", "content", "campaign")
	founderWords   = keywords("startup", "startups", "entrepreneur", "founder", "founders", "business")
	collabWords    = keywords("collaboration", "team", "teams", "sharing")
	workflowWords  = keywords("automation", "workflow", "workflows")
)

// categories is checked in order; the first table that matches wins.
var categories = []struct {
	name string
	re   *regexp.Regexp
}{
	{CategoryAI, aiWords},
	{CategoryProductivity, keywords("productivity", "workflow", "automation", "efficiency")},
	{CategoryDeveloper, devWords},
	{CategoryDesign, keywords("design", "figma", "creative", "ui", "ux")},
	{CategoryProject, projectWords},
	{CategoryMarketing, keywords("marketing", "seo", "social", "content")},
	{CategoryEducation, keywords("education", "learning", "training", "course", "courses")},
	{CategoryHealth, keywords("health", "fitness", "wellness", "lifestyle")},
	{CategoryFinance, keywords("finance", "business", "payment", "payments", "banking")},
	{CategoryEntertain, keywords("entertainment", "game", "games", "fun", "music", "video")},
}

// highPotential categories get a market potential bonus.
var highPotential = map[string]bool{
	CategoryAI:        true,
	CategoryDeveloper: true,
	CategoryProject:   true,
}

func text(p *Product) string { return p.Name + " " + p.Description }

// Classify returns the first category whose keywords occur in s.
func Classify(s string) string {
	for _, c := range categories {
		if c.re.MatchString(s) {
			return c.name
		}
	}
	return CategoryOther
}

func PainPoint(p *Product) string {
	t := text(p)
	switch {
	case aiWords.MatchString(t):
		return "Replaces slow, costly manual work with AI automation that raises both speed and quality"
	case designWords.MatchString(t):
		return "Removes friction from design collaboration, cumbersome design workflows and version management"
	case devWords.MatchString(t):
		return "Improves team development efficiency, simplifies deployment and cuts environment setup overhead"
	case projectWords.MatchString(t):
		return "Brings scattered project work together and makes team communication and progress tracking clear"
	case marketingWords.MatchString(t):
		return "Improves marketing results, streamlines content creation and lifts acquisition and retention"
	}
	return fmt.Sprintf("Addresses specific needs of users in the %s space", strings.ToLower(p.Category))
}

var audienceByCategory = map[string]string{
	CategoryAI:           "AI practitioners, product managers and innovation-driven founders",
	CategoryProductivity: "Office workers, startup teams and remote workers",
	CategoryDeveloper:    "Software engineers, DevOps engineers and engineering leads",
	CategoryDesign:       "UI/UX designers, product designers and creative teams",
	CategoryProject:      "Project managers, agile coaches and team coordinators",
	CategoryMarketing:    "Marketers, content creators and digital marketing teams",
}

func TargetAudience(p *Product) string {
	if a, ok := audienceByCategory[p.Category]; ok {
		return a
	}
	if founderWords.MatchString(text(p)) {
		return "Startup founders, product managers and small business owners"
	}
	return "Tech professionals, early adopters and efficiency-minded specialists"
}

func CoreFeature(p *Product) string {
	t := text(p)
	switch {
	case aiWords.MatchString(t):
		return "AI-driven features that handle complex tasks automatically"
	case collabWords.MatchString(t):
		return "Real-time team collaboration and sharing"
	case workflowWords.MatchString(t):
		return "Automated workflows and task management"
	case designWords.MatchString(t):
		return "Creative design and visual expression"
	}
	return "Focused on everyday efficiency and a better user experience"
}

// competitorsByName is matched against the product name first.
var competitorsByName = []struct {
	re    *regexp.Regexp
	names []string
}{
	{keywords("ai"), []string{"ChatGPT", "Claude", "Midjourney"}},
	{keywords("design"), []string{"Figma", "Sketch", "Adobe XD"}},
	{keywords("code"), []string{"GitHub", "GitLab", "Bitbucket"}},
	{keywords("project"), []string{"Notion", "Trello", "Asana"}},
	{keywords("chat"), []string{"Slack", "Discord", "Microsoft Teams"}},
	{keywords("marketing"), []string{"HubSpot", "Mailchimp", "Buffer"}},
}

var competitorsByCategory = map[string][]string{
	CategoryAI:           {"ChatGPT", "Claude", "Gemini"},
	CategoryDeveloper:    {"GitHub", "GitLab", "Bitbucket"},
	CategoryDesign:       {"Figma", "Sketch", "Adobe XD"},
	CategoryProject:      {"Notion", "Trello", "Asana"},
	CategoryProductivity: {"Slack", "Microsoft Teams", "Zoom"},
}

// Competitors returns at most three rivals, never the product itself. An
// empty result means no well-known rival is mapped.
func Competitors(p *Product) []string {
	var pool []string
	for _, c := range competitorsByName {
		if c.re.MatchString(p.Name) {
			pool = c.names
			break
		}
	}
	if pool == nil {
		pool = competitorsByCategory[p.Category]
	}
	name := strings.ToLower(p.Name)
	out := make([]string, 0, 3)
	for _, c := range pool {
		if strings.Contains(name, strings.ToLower(c)) {
			continue
		}
		out = append(out, c)
		if len(out) == 3 {
			break
		}
	}
	return out
}

var weaknessByCategory = map[string]string{
	CategoryAI:        "Output quality depends on model accuracy and input data, and compute costs run high",
	CategoryDesign:    "Steep learning curve and limited integration with the rest of the toolchain",
	CategoryDeveloper: "Configuration complexity and friction when fitting into existing workflows",
	CategoryProject:   "Crowded category where switching costs keep teams on incumbent tools",
}

const baseWeakness = "As a new product it still has to prove market acceptance and ecosystem maturity"

func Weaknesses(p *Product) string {
	if w, ok := weaknessByCategory[p.Category]; ok {
		return w + ". " + baseWeakness
	}
	return baseWeakness
}

func BusinessModel(p *Product) string {
	switch p.Category {
	case CategoryAI:
		return "Subscription SaaS with tiered feature plans"
	case CategoryDeveloper, CategoryProject:
		return "Freemium: core features free, advanced features paid"
	}
	return "Mixed model combining subscriptions and one-time purchases"
}

func Pricing(p *Product) string {
	switch {
	case p.Votes > 400:
		return "Strong market traction supports tiered pricing"
	case p.Votes > 200:
		return "Moderate market recognition, standard pricing"
	}
	return "Early stage product, value-based pricing"
}

func Strengths(p *Product) string {
	var s []string
	if p.Category == CategoryAI {
		s = append(s, "Advanced technology and AI capabilities")
	}
	if p.Votes > 300 {
		s = append(s, "High community recognition")
	}
	if len(p.Competitors) > 0 {
		s = append(s, "Clear differentiation from established rivals")
	}
	if len(s) == 0 {
		s = append(s, "Clear positioning", "Polished user experience")
	}
	return strings.Join(s, "; ")
}

var valueWords = keywords("efficiency", "automation", "quality", "speed")

// ExpertOpinion writes the analyst commentary. It reads PainPoint and
// TargetAudience, so those must be filled first.
func ExpertOpinion(p *Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is ", p.Name)
	name := p.Name
	switch {
	case aiWords.MatchString(name):
		b.WriteString("an AI product that reflects the move of AI from general assistants into vertical use cases. ")
	case designWords.MatchString(name):
		b.WriteString("a design collaboration product that fits the shift to digital, remote design work. ")
	case devWords.MatchString(name):
		b.WriteString("a developer tool in a category that keeps rewarding productivity gains. ")
	default:
		b.WriteString("a product that shows a sharp read of market demand. ")
	}
	fmt.Fprintf(&b, "For %s it offers a clear value proposition.", strings.ToLower(p.TargetAudience))

	b.WriteString("\n\nOn the business side, ")
	if valueWords.MatchString(p.PainPoint) {
		b.WriteString("the value it creates is measurable, which gives a credible path to revenue and paid conversion.")
	} else {
		b.WriteString("the monetization path still needs validation; watch acquisition cost and lifetime value.")
	}

	b.WriteString("\n\n**Watch list**: user growth, technical moat and commercial traction.")
	return b.String()
}

// Analyze fills every derived text field of p. Fields already set, such as a
// scraped category, are kept.
func Analyze(p *Product) {
	if p.Category == "" {
		p.Category = Classify(text(p))
	}
	p.PainPoint = PainPoint(p)
	p.TargetAudience = TargetAudience(p)
	p.CoreFeature = CoreFeature(p)
	p.Competitors = Competitors(p)
	p.Weaknesses = Weaknesses(p)
	p.BusinessModel = BusinessModel(p)
	p.Pricing = Pricing(p)
	p.Strengths = Strengths(p)
	p.ExpertOpinion = ExpertOpinion(p)
}

// Enhance runs Analyze then Score.
func Enhance(p *Product) {
	Analyze(p)
	Score(p)
}

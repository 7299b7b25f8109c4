package products

// Fallback is the sample leaderboard used when the source is unreachable.
func Fallback() []Product {
	return []Product{
		{
			Rank:        1,
			Name:        "Claude 3.5 Sonnet",
			Description: "Anthropic's latest AI assistant with outstanding code understanding and generation",
			ImageURL:    "https://cdn.producthunt.com/r/100x100/1010.jpg",
			WebsiteURL:  "https://claude.ai",
			Votes:       523,
		},
		{
			Rank:        2,
			Name:        "Linear",
			Description: "Modern project management tool built for software teams",
			ImageURL:    "https://cdn.producthunt.com/r/100x100/1001.jpg",
			WebsiteURL:  "https://linear.app",
			Votes:       412,
		},
		{
			Rank:        3,
			Name:        "Notion AI",
			Description: "AI writing assistant integrated into Notion to speed up document work",
			ImageURL:    "https://cdn.producthunt.com/r/100x100/1002.jpg",
			WebsiteURL:  "https://notion.so",
			Votes:       389,
		},
	}
}

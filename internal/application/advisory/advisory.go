// Package advisory picks the repository setup guidance printed at the end of
// a bootstrap run.
package advisory

import (
	"fmt"
	"os"
	"path/filepath"
)

// Advice is one of two fixed guidance blocks.
type Advice struct {
	HasGit bool
	Title  string
	Lines  []string
}

// Inspect looks for a .git directory under dir. It never fails; a stat error
// is treated as "no repository".
func Inspect(dir, workflowPath, logFile string) Advice {
	st, err := os.Stat(filepath.Join(dir, ".git"))
	if err == nil && st.IsDir() {
		return Advice{
			HasGit: true,
			Title:  "Git repository detected, daily automation can be enabled:",
			Lines: []string{
				"1. Commit and push the project: git add . && git commit -m \"Add daily analysis\" && git push",
				"2. Add the required secrets (e.g. OPENAI_API_KEY) under Settings > Secrets and variables > Actions",
				fmt.Sprintf("3. The scheduled workflow lives in %s", workflowPath),
				fmt.Sprintf("4. Check %s when a run misbehaves", logFile),
			},
		}
	}
	return Advice{
		Title: "No Git repository found. To enable daily automation:",
		Lines: []string{
			"1. git init && git add . && git commit -m \"Initial commit\"",
			"2. git remote add origin <your-repository-url>",
			"3. git push -u origin main",
			fmt.Sprintf("4. Enable the workflow in %s once the repository is on GitHub", workflowPath),
		},
	}
}

func (a Advice) String() string {
	s := a.Title + "\n"
	for _, l := range a.Lines {
		s += "   " + l + "\n"
	}
	return s
}

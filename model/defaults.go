package model

import "time"

// defaultCreated is fixed so that repairing storage never regenerates
// seemingly new prompts.
var defaultCreated = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// DefaultPrompts returns the starter prompts seeded on first run.
func DefaultPrompts() []Prompt {
	return []Prompt{
		{
			ID:          "default-code-review-001",
			Title:       "Code Review Checklist",
			Description: "Comprehensive code review focusing on quality and best practices",
			Content: "Please review this code for:\n\n" +
				"1. Functionality: Does it work as intended?\n" +
				"2. Code Quality: Is it clean, readable, and maintainable?\n" +
				"3. Performance: Are there any obvious performance issues?\n" +
				"4. Security: Are there any security vulnerabilities?\n" +
				"5. Best Practices: Does it follow language/framework conventions?\n" +
				"6. Testing: Is it adequately tested?\n\n" +
				"Provide specific feedback with examples and suggestions for improvement.",
			Category: "programming/code-review",
			Tags:     []string{"review", "quality", "best-practices"},
			Created:  defaultCreated,
		},
		{
			ID:          "default-debug-analysis-002",
			Title:       "Debug Analysis",
			Description: "Systematic approach to debugging code issues",
			Content: "Help me debug this issue:\n\n" +
				"Problem: [Describe the issue]\n" +
				"Expected Behavior: [What should happen]\n" +
				"Actual Behavior: [What actually happens]\n" +
				"Code: [Paste relevant code]\n" +
				"Error Messages: [Any error messages]\n\n" +
				"Please:\n" +
				"1. Analyze the potential root causes\n" +
				"2. Suggest debugging steps\n" +
				"3. Provide possible solutions\n" +
				"4. Explain why the issue might be occurring",
			Category: "programming/debugging",
			Tags:     []string{"debug", "troubleshooting", "analysis"},
			Favorite: true,
			Created:  defaultCreated,
		},
		{
			ID:          "default-email-template-003",
			Title:       "Professional Email Template",
			Description: "Structure for professional business emails",
			Content: "Subject: [Clear, specific subject line]\n\n" +
				"Dear [Name],\n\n" +
				"[Opening - brief context or greeting]\n\n" +
				"[Main content - clear, concise explanation of purpose]\n\n" +
				"[Action items or next steps if applicable]\n\n" +
				"[Closing - thank you or call to action]\n\n" +
				"Best regards,\n[Your name]",
			Category: "business/emails",
			Tags:     []string{"email", "template", "professional"},
			Created:  defaultCreated,
		},
		{
			ID:          "default-research-summary-004",
			Title:       "Research Summary",
			Description: "Template for summarizing research findings",
			Content: "Please analyze and summarize the following research topic:\n\n" +
				"Topic: [Research subject]\n" +
				"Sources: [List key sources or specify type]\n\n" +
				"Please provide:\n" +
				"1. Key Findings: Main discoveries or conclusions\n" +
				"2. Methodology: How the research was conducted\n" +
				"3. Implications: What this means for the field/industry\n" +
				"4. Limitations: Any constraints or gaps in the research\n" +
				"5. Future Directions: Suggested areas for further study\n\n" +
				"Format the summary for a general audience while maintaining accuracy.",
			Category: "research",
			Tags:     []string{"research", "summary", "analysis"},
			Created:  defaultCreated,
		},
	}
}

// DefaultFolders returns the built-in folder hierarchy.
func DefaultFolders() FolderMap {
	return FolderMap{
		"programming": {
			ID:   "programming",
			Name: "Programming",
			Icon: "💻",
			Subfolders: []string{
				"programming/code-review",
				"programming/debugging",
				"programming/documentation",
			},
		},
		"programming/code-review": {
			ID:         "programming/code-review",
			Name:       "Code Review",
			Icon:       "🔍",
			Parent:     "programming",
			Subfolders: []string{},
		},
		"programming/debugging": {
			ID:         "programming/debugging",
			Name:       "Debugging",
			Icon:       "🐛",
			Parent:     "programming",
			Subfolders: []string{},
		},
		"programming/documentation": {
			ID:         "programming/documentation",
			Name:       "Documentation",
			Icon:       "📝",
			Parent:     "programming",
			Subfolders: []string{},
		},
		"business": {
			ID:         "business",
			Name:       "Business",
			Icon:       "💼",
			Subfolders: []string{"business/emails", "business/proposals"},
		},
		"business/emails": {
			ID:         "business/emails",
			Name:       "Email Templates",
			Icon:       "📧",
			Parent:     "business",
			Subfolders: []string{},
		},
		"business/proposals": {
			ID:         "business/proposals",
			Name:       "Proposals",
			Icon:       "📊",
			Parent:     "business",
			Subfolders: []string{},
		},
		"personal": {
			ID:         "personal",
			Name:       "Personal",
			Icon:       "👤",
			Subfolders: []string{},
		},
		"creative": {
			ID:         "creative",
			Name:       "Creative",
			Icon:       "🎨",
			Subfolders: []string{},
		},
		"research": {
			ID:         "research",
			Name:       "Research",
			Icon:       "🔬",
			Subfolders: []string{},
		},
	}
}

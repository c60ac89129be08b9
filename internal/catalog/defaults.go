package catalog

// defaultItems is the built-in assessment catalog.
// Order is significant: the first item is the fallback recommendation.
var defaultItems = []Item{
	{
		Name:            "Verify G+ General Ability",
		URL:             "https://www.shl.com/solutions/products/verify-g-plus/",
		RemoteTesting:   true,
		AdaptiveSupport: true,
		Duration:        "24 minutes",
		Category:        "Cognitive Ability",
	},
	{
		Name:            "Verify Numerical Ability",
		URL:             "https://www.shl.com/solutions/products/verify-numerical/",
		RemoteTesting:   true,
		AdaptiveSupport: true,
		Duration:        "18 minutes",
		Category:        "Numerical Reasoning",
	},
	{
		Name:          "Java Programming Test",
		URL:           "https://www.shl.com/solutions/products/java-programming/",
		RemoteTesting: true,
		Duration:      "40 minutes",
		Category:      "Technical Skills",
	},
	{
		Name:          "Python Programming Test",
		URL:           "https://www.shl.com/solutions/products/python-programming/",
		RemoteTesting: true,
		Duration:      "45 minutes",
		Category:      "Technical Skills",
	},
	{
		Name:          "SQL Assessment",
		URL:           "https://www.shl.com/solutions/products/sql-assessment/",
		RemoteTesting: true,
		Duration:      "35 minutes",
		Category:      "Technical Skills",
	},
	{
		Name:          "JavaScript Assessment",
		URL:           "https://www.shl.com/solutions/products/javascript-assessment/",
		RemoteTesting: true,
		Duration:      "30 minutes",
		Category:      "Technical Skills",
	},
	{
		Name:          "OPQ Leadership Report",
		URL:           "https://www.shl.com/solutions/products/opq-leadership/",
		RemoteTesting: true,
		Duration:      "25 minutes",
		Category:      "Personality",
	},
	{
		Name:            "Situational Judgement Test",
		URL:             "https://www.shl.com/solutions/products/situational-judgement/",
		RemoteTesting:   true,
		AdaptiveSupport: true,
		Duration:        "30 minutes",
		Category:        "Behavioral Assessment",
	},
	{
		Name:            "Business Analyst Assessment",
		URL:             "https://www.shl.com/solutions/products/business-analyst/",
		RemoteTesting:   true,
		AdaptiveSupport: true,
		Duration:        "45 minutes",
		Category:        "Role-specific",
	},
	{
		Name:            "Data Science Assessment",
		URL:             "https://www.shl.com/solutions/products/data-science/",
		RemoteTesting:   true,
		AdaptiveSupport: true,
		Duration:        "50 minutes",
		Category:        "Technical Skills",
	},
	{
		Name:          "Communication Skills Assessment",
		URL:           "https://www.shl.com/solutions/products/communication-skills/",
		RemoteTesting: true,
		Duration:      "20 minutes",
		Category:      "Soft Skills",
	},
	{
		Name:          "Teamwork Assessment",
		URL:           "https://www.shl.com/solutions/products/teamwork-assessment/",
		RemoteTesting: true,
		Duration:      "15 minutes",
		Category:      "Soft Skills",
	},
	{
		Name:            "Full-Stack Developer Assessment",
		URL:             "https://www.shl.com/solutions/products/fullstack-developer/",
		RemoteTesting:   true,
		AdaptiveSupport: true,
		Duration:        "60 minutes",
		Category:        "Technical Skills",
	},
	{
		Name:            "Critical Thinking Assessment",
		URL:             "https://www.shl.com/solutions/products/critical-thinking/",
		RemoteTesting:   true,
		AdaptiveSupport: true,
		Duration:        "25 minutes",
		Category:        "Cognitive Ability",
	},
	{
		Name:            "Analytical Thinking Assessment",
		URL:             "https://www.shl.com/solutions/products/analytical-thinking/",
		RemoteTesting:   true,
		AdaptiveSupport: true,
		Duration:        "35 minutes",
		Category:        "Cognitive Ability",
	},
}

// Default returns the built-in catalog.
func Default() *Static {
	s, err := New(defaultItems)
	if err != nil {
		// defaultItems is a compile-time constant list; a failure here is a programming error.
		panic("catalog: invalid built-in catalog: " + err.Error())
	}
	return s
}

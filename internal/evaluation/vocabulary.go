package evaluation

var technicalKeywords = []string{
	"javascript", "react", "node", "api", "database", "sql", "html", "css",
	"python", "java", "git", "aws", "docker", "kubernetes", "microservices",
	"algorithm", "data structure", "function", "variable", "array", "object",
	"async", "await", "promise", "callback", "error handling", "testing",
	"debugging", "performance", "security", "authentication", "authorization",
}

var behavioralKeywords = []string{
	"team", "collaborate", "communication", "project", "deadline", "conflict",
	"leadership", "management", "problem-solving", "solution", "approach",
	"strategy", "planning", "organization", "priority", "stakeholder",
}

var exampleIndicators = []string{
	"for example", "for instance", "such as", "like when",
	"specifically", "in one case", "demonstrated", "implemented",
	"achieved", "resulted in", "led to", "successfully",
}

var depthIndicators = []string{
	"architecture", "design pattern", "algorithm", "optimization", "performance",
	"scalability", "security", "database", "api", "framework", "library",
	"implementation", "deployment", "testing", "debugging", "monitoring",
	"version control", "ci/cd", "microservices", "cloud", "infrastructure",
}

var impactIndicators = []string{
	"revenue", "cost", "savings", "efficiency", "productivity", "customer satisfaction",
	"user engagement", "conversion", "retention", "growth", "market share",
	"reduced", "increased", "improved", "optimized", "streamlined",
	"business value", "roi", "kpi", "metrics", "impact", "results",
}

var stopWords = map[string]struct{}{
	"the": {}, "is": {}, "at": {}, "which": {}, "what": {}, "how": {}, "when": {},
	"where": {}, "why": {}, "are": {}, "was": {}, "were": {}, "been": {}, "have": {},
	"has": {}, "had": {}, "does": {}, "do": {}, "did": {}, "will": {}, "would": {},
	"should": {}, "could": {}, "can": {}, "may": {}, "might": {}, "must": {}, "shall": {},
}

// band is a feedback template selected by score.
type band struct {
	min          int
	feedback     string
	improvements []string
}

// bands are ordered from the highest threshold down; the last one catches everything.
var bands = []band{
	{
		min:      90,
		feedback: "Exceptional response! Demonstrates deep technical expertise, structured thinking, and practical application with concrete examples. This is interview-ready performance.",
		improvements: []string{
			"Consider quantifying your impact with specific metrics (e.g., 'improved performance by 40%')",
			"Mention cross-functional collaboration and stakeholder management",
			"Highlight how your approach aligns with industry best practices and standards",
		},
	},
	{
		min:      80,
		feedback: "Outstanding response! Well-structured, comprehensive, and demonstrates strong technical knowledge with relevant examples.",
		improvements: []string{
			"Add specific metrics and measurable outcomes to strengthen your impact",
			"Include lessons learned and how you've applied them to future projects",
			"Mention scalability considerations and long-term maintenance strategies",
		},
	},
	{
		min:      70,
		feedback: "Strong response with good structure and relevant content. Shows solid understanding but could benefit from more specific examples.",
		improvements: []string{
			"Add concrete examples with specific technologies and frameworks used",
			"Include measurable outcomes and business impact when possible",
			"Mention collaboration with cross-functional teams and stakeholders",
		},
	},
	{
		min:      60,
		feedback: "Good response that addresses question effectively. Needs more depth and specific technical examples.",
		improvements: []string{
			"Provide more detailed examples from your professional experience",
			"Structure your answer using STAR method (Situation, Task, Action, Result)",
			"Include specific technologies, tools, and methodologies you've used",
		},
	},
	{
		min:      50,
		feedback: "Decent attempt with relevant content. Lacks sufficient detail and structure for a strong interview response.",
		improvements: []string{
			"Use STAR method consistently for behavioral questions",
			"Add 2-3 specific examples with technical details",
			"Structure answer with clear introduction, body, and conclusion",
			"Include measurable results and business impact",
		},
	},
	{
		min:      40,
		feedback: "Basic response that needs significant improvement. Lacks detail, structure, and professional examples.",
		improvements: []string{
			"Practice using STAR method for all behavioral questions",
			"Research and prepare specific examples for common technical scenarios",
			"Structure answers with clear points and supporting details",
			"Include specific technologies, frameworks, and methodologies",
		},
	},
	{
		min:      0,
		feedback: "Response requires major improvement. Lacks depth, structure, and examples expected in a professional interview.",
		improvements: []string{
			"Master STAR method (Situation, Task, Action, Result) for all answers",
			"Prepare 5-7 detailed examples from your experience with specific outcomes",
			"Practice structuring answers with introduction, key points, and conclusion",
			"Include specific technologies, metrics, and business impact in every example",
		},
	},
}

const voiceFeedback = "Voice response recorded successfully! Since transcription is unavailable due to API limits, we've credited you with a strong score. Continue with your next question."

var voiceImprovements = []string{
	"Voice responses show confidence in communication",
	"Consider using text responses when transcription is available for detailed feedback",
	"Great job utilizing voice features in the interview",
}

// VoiceScore is the score credited to an answer recorded without a transcript.
const VoiceScore = 75

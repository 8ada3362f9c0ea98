package analysis

// Lexicon bundles the fixed dictionaries the text pipeline depends on.
// It is loaded once and treated as immutable; every extractor and
// detector receives it by value of reference, never through a mutable
// global.
type Lexicon struct {
	StopWords        map[string]bool
	TechTerms        []string
	ToxicWords       []string
	CommercialTerms  []string
	CallToAction     []string
	ExplanatoryWords []string
	CommonTags       []string
	Valence          map[string]float64
	Categories       []TopicCategory
}

// TopicCategory maps a display category to the keywords that select it.
// Order matters: categories are checked first to last.
type TopicCategory struct {
	Name     string
	Keywords []string
}

// DefaultLexicon returns the process-wide constant lexicon
func DefaultLexicon() *Lexicon {
	return defaultLexicon
}

var defaultLexicon = &Lexicon{
	StopWords: map[string]bool{
		"the": true, "a": true, "an": true, "and": true, "or": true,
		"but": true, "in": true, "on": true, "at": true, "to": true,
		"for": true, "of": true, "with": true, "is": true, "are": true,
		"was": true, "were": true, "be": true, "been": true, "being": true,
		"have": true, "has": true, "had": true, "do": true, "does": true,
		"did": true, "will": true, "would": true, "could": true, "should": true,
		"i": true, "you": true, "he": true, "she": true, "it": true,
		"we": true, "they": true, "this": true, "that": true, "these": true,
		"those": true, "my": true, "your": true, "its": true, "our": true,
		"what": true, "which": true, "who": true, "when": true, "where": true,
		"how": true, "why": true, "can": true, "am": true, "as": true,
		"if": true, "then": true, "so": true, "not": true, "no": true,
		"from": true, "by": true, "about": true, "into": true, "there": true,
	},

	TechTerms: []string{
		// Programming languages
		"javascript", "python", "java", "react", "node", "angular", "vue",
		"typescript", "php", "ruby", "go", "rust", "kotlin", "swift",
		// Frameworks and libraries
		"express", "django", "flask", "spring", "laravel", "rails",
		"nextjs", "nuxt", "svelte", "ember",
		// Databases
		"mysql", "postgresql", "mongodb", "redis", "sqlite", "firebase",
		"sql", "database",
		// Cloud and DevOps
		"aws", "azure", "gcp", "docker", "kubernetes", "jenkins",
		// Tools and concepts
		"git", "api", "rest", "graphql", "microservices", "authentication",
		"security", "performance", "optimization", "testing", "debugging",
	},

	ToxicWords: []string{
		"stupid", "dumb", "idiot", "moron", "retard", "noob",
		"suck", "terrible", "awful", "garbage", "trash",
	},

	CommercialTerms: []string{"buy", "sale", "discount", "offer", "free", "win", "prize"},
	CallToAction:    []string{"click here", "visit now", "act now"},

	ExplanatoryWords: []string{"because", "therefore", "however", "example", "specifically"},

	CommonTags: []string{
		"beginner", "advanced", "tutorial", "example", "best-practices",
		"performance", "security", "debugging", "error", "configuration",
	},

	// Compact AFINN-style valence subset covering the vocabulary that
	// actually occurs in programming Q&A text
	Valence: map[string]float64{
		"good": 3, "great": 3, "excellent": 3, "awesome": 4, "amazing": 4,
		"love": 3, "like": 2, "best": 3, "perfect": 3, "helpful": 2,
		"thanks": 2, "thank": 2, "nice": 3, "works": 2, "solved": 2,
		"easy": 1, "clean": 2, "fast": 1, "useful": 2, "clear": 1,
		"bad": -3, "terrible": -3, "awful": -3, "horrible": -3, "hate": -3,
		"worst": -3, "broken": -2, "fail": -2, "fails": -2, "failed": -2,
		"error": -2, "bug": -2, "crash": -2, "wrong": -2, "problem": -2,
		"issue": -1, "slow": -1, "confusing": -2, "stuck": -2, "annoying": -2,
		"useless": -2, "stupid": -2, "frustrating": -2, "impossible": -2,
	},

	Categories: []TopicCategory{
		{Name: "Programming Languages", Keywords: []string{"javascript", "python", "java", "react", "node", "typescript", "php", "ruby", "go", "rust"}},
		{Name: "Frameworks & Libraries", Keywords: []string{"express", "django", "flask", "spring", "laravel", "rails", "angular", "vue", "nextjs"}},
		{Name: "Databases", Keywords: []string{"mysql", "postgresql", "mongodb", "redis", "sqlite", "firebase", "database", "sql"}},
		{Name: "Cloud & DevOps", Keywords: []string{"aws", "azure", "docker", "kubernetes", "jenkins", "cloud", "deployment"}},
		{Name: "Web Development", Keywords: []string{"html", "css", "frontend", "backend", "api", "rest", "graphql"}},
		{Name: "Data Science", Keywords: []string{"machine learning", "ai", "data", "algorithm", "analytics", "model"}},
		{Name: "Security", Keywords: []string{"security", "authentication", "authorization", "encryption", "vulnerability"}},
		{Name: "Performance", Keywords: []string{"performance", "optimization", "speed", "memory", "scalability"}},
		{Name: "Testing", Keywords: []string{"testing", "unit test", "integration", "debugging", "quality"}},
		{Name: "General", Keywords: []string{"programming", "development", "coding", "software", "application"}},
	},
}

package model

// TopicGroup is a named subject area of the topic catalog.
type TopicGroup struct {
	Name   string
	Topics []string
}

// TopicGroups is the closed topic catalog in display order.
var TopicGroups = []TopicGroup{
	{
		Name: "Algebra & Functions",
		Topics: []string{
			"Sequences & Series",
			"Exponents & Logarithms",
			"Binomial Theorem",
			"Polynomial Functions",
			"Rational Functions",
			"Transformation of Functions",
		},
	},
	{
		Name: "Calculus",
		Topics: []string{
			"Differentiation",
			"Integration (definite & indefinite)",
			"Integration by Parts",
			"Volumes of Revolution",
			"Differential Equations",
			"Related Rates",
			"Optimization",
		},
	},
	{
		Name: "Geometry & Trigonometry",
		Topics: []string{
			"Trigonometric Functions",
			"Trigonometric Identities",
			"Vectors",
			"Lines & Planes in 3D",
			"Circle Geometry",
		},
	},
	{
		Name: "Statistics & Probability",
		Topics: []string{
			"Descriptive Statistics",
			"Probability",
			"Distributions (Normal, Binomial, Poisson)",
			"Hypothesis Testing",
			"Regression & Correlation",
		},
	},
	{
		Name: "Number & Algebra",
		Topics: []string{
			"Proof by Induction",
			"Complex Numbers",
			"Matrices",
			"Systematic Counting",
		},
	},
}

var topicSet = func() map[string]bool {
	set := make(map[string]bool)
	for _, g := range TopicGroups {
		for _, t := range g.Topics {
			set[t] = true
		}
	}
	return set
}()

// AllTopics returns every catalog topic, flattened in display order.
func AllTopics() []string {
	var all []string
	for _, g := range TopicGroups {
		all = append(all, g.Topics...)
	}
	return all
}

// IsTopic reports whether name is in the topic catalog.
func IsTopic(name string) bool {
	return topicSet[name]
}

package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"stackit-backend/domain/analysis"
	"stackit-backend/domain/content"
)

// Topic extraction defaults
const (
	DefaultMinTopicFrequency = 2
	DefaultMaxTopics         = 50

	topicClusterThreshold   = 0.7
	topicRecommendThreshold = 0.6
	maxTopicRecommendations = 10
)

// TopicOptions tunes topic extraction. A nil options value selects
// the defaults with clustering on and temporal analysis off.
type TopicOptions struct {
	MinFrequency  int
	MaxTopics     int
	ClusterTopics bool
	TimeBased     bool
}

// DefaultTopicOptions returns the standard extraction configuration
func DefaultTopicOptions() *TopicOptions {
	return &TopicOptions{
		MinFrequency:  DefaultMinTopicFrequency,
		MaxTopics:     DefaultMaxTopics,
		ClusterTopics: true,
	}
}

func (o *TopicOptions) withDefaults() TopicOptions {
	if o == nil {
		return *DefaultTopicOptions()
	}
	opts := *o
	if opts.MinFrequency <= 0 {
		opts.MinFrequency = DefaultMinTopicFrequency
	}
	if opts.MaxTopics <= 0 {
		opts.MaxTopics = DefaultMaxTopics
	}
	return opts
}

// Topic is one extracted topic with corpus-level statistics
type Topic struct {
	Name       string      `json:"topic"`
	Frequency  int         `json:"frequency"`
	Percentage int         `json:"percentage"`
	Cluster    string      `json:"cluster,omitempty"`
	Category   string      `json:"category"`
	Trend      *TopicTrend `json:"trends,omitempty"`
}

// TopicCluster groups near-identical topic labels under one name
type TopicCluster struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Representative string   `json:"representative"`
	Topics         []string `json:"topics"`
}

// TopicNode is one level of the category hierarchy
type TopicNode struct {
	Name      string      `json:"name"`
	Frequency int         `json:"frequency"`
	Leaf      bool        `json:"isLeaf,omitempty"`
	Children  []TopicNode `json:"children,omitempty"`
}

// TopicTrend describes how a topic's frequency moved across time buckets
type TopicTrend struct {
	Frequencies []int   `json:"frequencies"`
	Trend       string  `json:"trend"`
	Volatility  float64 `json:"volatility"`
	Peak        int     `json:"peak"`
	Latest      int     `json:"latest"`
}

// NetworkNode is one topic in the co-occurrence network
type NetworkNode struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Connections int    `json:"connections"`
	Strength    int    `json:"strength"`
}

// NetworkEdge links two topics that appear in the same content
type NetworkEdge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Weight int    `json:"weight"`
	Label  string `json:"label"`
}

// TopicNetwork is the co-occurrence graph over extracted topics
type TopicNetwork struct {
	Nodes []NetworkNode `json:"nodes"`
	Edges []NetworkEdge `json:"edges"`
}

// TopicReport is the full result of topic extraction over a corpus.
// SkippedItems counts items whose feature extraction produced nothing;
// they contribute no topics but never fail the run.
type TopicReport struct {
	Topics       []Topic                   `json:"topics"`
	Clusters     []TopicCluster            `json:"clusters"`
	Hierarchy    TopicNode                 `json:"hierarchy"`
	Network      TopicNetwork              `json:"relationships"`
	Temporal     map[string]map[string]int `json:"temporalAnalysis"`
	Insights     []string                  `json:"insights"`
	SkippedItems int                       `json:"skippedItems"`
}

// TopicSuggestion matches new content against established topics
type TopicSuggestion struct {
	Topic      string  `json:"topic"`
	Similarity float64 `json:"similarity"`
	Frequency  int     `json:"frequency"`
	Reason     string  `json:"reason"`
}

// TopicGroup is content organized under one extracted topic
type TopicGroup struct {
	Topic      string   `json:"topic"`
	ItemIDs    []string `json:"itemIds"`
	TotalItems int      `json:"totalItems"`
	AvgQuality float64  `json:"avgQuality"`
}

// TopicService extracts, clusters and tracks discussion topics across
// a content corpus
type TopicService struct {
	extractor *analysis.Extractor
	lexicon   *analysis.Lexicon
	logger    *zap.Logger
}

// NewTopicService creates a new topic service
func NewTopicService(logger *zap.Logger) *TopicService {
	return &TopicService{
		extractor: analysis.NewExtractor(nil),
		lexicon:   analysis.DefaultLexicon(),
		logger:    logger,
	}
}

// ExtractTopics mines topics from a content corpus: frequency-filtered
// topic list, similarity clusters, category hierarchy, co-occurrence
// network and, when TimeBased is set, month-over-month trends.
func (s *TopicService) ExtractTopics(items []content.Item, options *TopicOptions) *TopicReport {
	opts := options.withDefaults()

	frequency := make(map[string]int)
	relationships := make(map[string]int)
	temporal := make(map[string]map[string]int)
	skipped := 0

	for _, item := range items {
		topics, ok := s.itemTopics(item)
		if !ok {
			skipped++
			continue
		}
		if len(topics) == 0 {
			continue
		}

		timeKey := "all"
		if opts.TimeBased {
			timeKey = item.CreatedAt.UTC().Format("2006-01")
		}
		if temporal[timeKey] == nil {
			temporal[timeKey] = make(map[string]int)
		}

		for _, topic := range topics {
			frequency[topic]++
			temporal[timeKey][topic]++
			for _, other := range topics {
				if other != topic {
					relationships[relationshipKey(topic, other)]++
				}
			}
		}
	}

	filtered := make([]Topic, 0, len(frequency))
	for topic, freq := range frequency {
		if freq >= opts.MinFrequency {
			filtered = append(filtered, Topic{Name: topic, Frequency: freq})
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Frequency != filtered[j].Frequency {
			return filtered[i].Frequency > filtered[j].Frequency
		}
		return filtered[i].Name < filtered[j].Name
	})
	if len(filtered) > opts.MaxTopics {
		filtered = filtered[:opts.MaxTopics]
	}

	var clusters []TopicCluster
	if opts.ClusterTopics {
		clusters = s.clusterTopics(filtered)
	}

	trends := analyzeTopicTrends(temporal)

	for i := range filtered {
		filtered[i].Percentage = int(math.Round(float64(filtered[i].Frequency) / float64(maxInt(len(items), 1)) * 100))
		filtered[i].Cluster = findTopicCluster(filtered[i].Name, clusters)
		filtered[i].Category = s.categorizeTopic(filtered[i].Name)
		filtered[i].Trend = trends[filtered[i].Name]
	}

	report := &TopicReport{
		Topics:       filtered,
		Clusters:     clusters,
		Hierarchy:    s.buildHierarchy(filtered),
		Network:      buildTopicNetwork(relationships),
		Temporal:     temporal,
		Insights:     s.topicInsights(filtered, trends, clusters),
		SkippedItems: skipped,
	}

	s.logger.Debug("Topics extracted",
		zap.Int("items", len(items)),
		zap.Int("topics", len(filtered)),
		zap.Int("clusters", len(clusters)),
		zap.Int("skipped", skipped),
	)
	return report
}

// RecommendTopics matches a new piece of content against already
// established topics so authors reuse existing labels
func (s *TopicService) RecommendTopics(title, body string, existing []Topic) []TopicSuggestion {
	features := s.extractor.Extract(title, body)
	if features == nil {
		return nil
	}

	contentTopics := append(append([]string{}, features.Technologies...), features.KeywordTerms()...)

	suggestions := make([]TopicSuggestion, 0)
	for _, topic := range existing {
		for _, contentTopic := range contentTopics {
			similarity := analysis.DiceCoefficient(topic.Name, contentTopic)
			if similarity > topicRecommendThreshold {
				suggestions = append(suggestions, TopicSuggestion{
					Topic:      topic.Name,
					Similarity: similarity,
					Frequency:  topic.Frequency,
					Reason:     fmt.Sprintf("Similar to %q (%d%% match)", contentTopic, int(math.Round(similarity*100))),
				})
			}
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		si := suggestions[i].Similarity*0.7 + float64(suggestions[i].Frequency)*0.3
		sj := suggestions[j].Similarity*0.7 + float64(suggestions[j].Frequency)*0.3
		return si > sj
	})
	if len(suggestions) > maxTopicRecommendations {
		suggestions = suggestions[:maxTopicRecommendations]
	}
	return suggestions
}

// OrganizeByTopics buckets content items under the extracted topics,
// tracking average answer quality per bucket
func (s *TopicService) OrganizeByTopics(items []content.Item, report *TopicReport) []TopicGroup {
	groups := make([]TopicGroup, len(report.Topics))
	index := make(map[string]int, len(report.Topics))
	qualityTotals := make([]float64, len(report.Topics))
	for i, topic := range report.Topics {
		groups[i] = TopicGroup{Topic: topic.Name, ItemIDs: make([]string, 0)}
		index[topic.Name] = i
	}

	for _, item := range items {
		topics, _ := s.itemTopics(item)
		for _, topic := range topics {
			i, ok := index[topic]
			if !ok {
				continue
			}
			groups[i].ItemIDs = append(groups[i].ItemIDs, item.ID)
			groups[i].TotalItems++
			if len(item.Body) > 50 {
				qualityTotals[i] += s.extractor.ScoreQuality(item.Body).Score
			}
		}
	}

	for i := range groups {
		if groups[i].TotalItems > 0 {
			groups[i].AvgQuality = qualityTotals[i] / float64(groups[i].TotalItems)
		}
	}
	return groups
}

// itemTopics returns the topic labels one item contributes, detected
// technologies plus keyword terms longer than two characters. The
// second return is false when feature extraction itself fails, as
// opposed to succeeding with no usable topics.
func (s *TopicService) itemTopics(item content.Item) ([]string, bool) {
	features := s.extractor.Extract(item.Title, item.Body)
	if features == nil {
		return nil, false
	}

	topics := make([]string, 0, len(features.Technologies)+len(features.Keywords))
	for _, tech := range features.Technologies {
		if len(tech) > 2 {
			topics = append(topics, tech)
		}
	}
	for _, kw := range features.Keywords {
		if len(kw.Term) > 2 {
			topics = append(topics, kw.Term)
		}
	}
	return topics, true
}

// clusterTopics runs single-pass star clustering over the topic labels.
// Every topic lands in exactly one cluster; singleton clusters are kept.
func (s *TopicService) clusterTopics(topics []Topic) []TopicCluster {
	clusters := make([]TopicCluster, 0)
	processed := make(map[string]bool, len(topics))

	for i, topic := range topics {
		if processed[topic.Name] {
			continue
		}
		cluster := TopicCluster{
			ID:             fmt.Sprintf("cluster_%d", len(clusters)),
			Name:           topic.Name,
			Representative: topic.Name,
			Topics:         []string{topic.Name},
		}
		processed[topic.Name] = true

		for _, other := range topics[i+1:] {
			if processed[other.Name] {
				continue
			}
			if analysis.DiceCoefficient(topic.Name, other.Name) >= topicClusterThreshold {
				cluster.Topics = append(cluster.Topics, other.Name)
				processed[other.Name] = true
			}
		}

		if len(cluster.Topics) > 1 {
			cluster.Name = clusterName(cluster.Topics)
		}
		clusters = append(clusters, cluster)
	}
	return clusters
}

// clusterName labels a multi-topic cluster by the words its members
// share, falling back to the longest member
func clusterName(topics []string) string {
	common := commonClusterWords(topics)
	if len(common) > 0 {
		return strings.Join(common, " ")
	}

	longest := topics[0]
	for _, t := range topics[1:] {
		if len(t) > len(longest) {
			longest = t
		}
	}
	return longest
}

func commonClusterWords(topics []string) []string {
	splitWords := func(topic string) map[string]bool {
		words := strings.FieldsFunc(strings.ToLower(topic), func(r rune) bool {
			return r == ' ' || r == '-' || r == '_' || r == '.'
		})
		set := make(map[string]bool, len(words))
		for _, w := range words {
			set[w] = true
		}
		return set
	}

	if len(topics) == 0 {
		return nil
	}

	common := splitWords(topics[0])
	for _, topic := range topics[1:] {
		next := splitWords(topic)
		for w := range common {
			if !next[w] {
				delete(common, w)
			}
		}
	}

	words := make([]string, 0, len(common))
	for w := range common {
		if len(w) > 2 {
			words = append(words, w)
		}
	}
	sort.Strings(words)
	return words
}

func findTopicCluster(topic string, clusters []TopicCluster) string {
	for _, cluster := range clusters {
		for _, t := range cluster.Topics {
			if t == topic {
				return cluster.ID
			}
		}
	}
	return ""
}

// categorizeTopic assigns a topic to the first lexicon category whose
// keywords overlap it, in either substring direction
func (s *TopicService) categorizeTopic(topic string) string {
	lower := strings.ToLower(topic)
	for _, category := range s.lexicon.Categories {
		for _, keyword := range category.Keywords {
			if strings.Contains(lower, keyword) || strings.Contains(keyword, lower) {
				return category.Name
			}
		}
	}
	return "Other"
}

// buildHierarchy arranges topics under their categories beneath a
// single root node
func (s *TopicService) buildHierarchy(topics []Topic) TopicNode {
	root := TopicNode{Name: "All Topics"}
	categoryIndex := make(map[string]int)

	for _, topic := range topics {
		root.Frequency += topic.Frequency

		category := s.categorizeTopic(topic.Name)
		i, ok := categoryIndex[category]
		if !ok {
			i = len(root.Children)
			categoryIndex[category] = i
			root.Children = append(root.Children, TopicNode{Name: category})
		}
		root.Children[i].Frequency += topic.Frequency
		root.Children[i].Children = append(root.Children[i].Children, TopicNode{
			Name:      topic.Name,
			Frequency: topic.Frequency,
			Leaf:      true,
		})
	}
	return root
}

// analyzeTopicTrends computes per-topic movement across time buckets.
// Trends exist only with at least two buckets, and only for topics
// already present in the earliest one.
func analyzeTopicTrends(temporal map[string]map[string]int) map[string]*TopicTrend {
	trends := make(map[string]*TopicTrend)

	timeKeys := make([]string, 0, len(temporal))
	for k := range temporal {
		timeKeys = append(timeKeys, k)
	}
	sort.Strings(timeKeys)
	if len(timeKeys) < 2 {
		return trends
	}

	for topic := range temporal[timeKeys[0]] {
		frequencies := make([]int, len(timeKeys))
		samples := make([]float64, len(timeKeys))
		peak := 0
		for i, key := range timeKeys {
			frequencies[i] = temporal[key][topic]
			samples[i] = float64(frequencies[i])
			if frequencies[i] > peak {
				peak = frequencies[i]
			}
		}

		trends[topic] = &TopicTrend{
			Frequencies: frequencies,
			Trend:       trendDirection(frequencies),
			Volatility:  analysis.StdDev(samples),
			Peak:        peak,
			Latest:      frequencies[len(frequencies)-1],
		}
	}
	return trends
}

func trendDirection(values []int) string {
	if len(values) < 2 {
		return "stable"
	}
	first := float64(values[0])
	last := float64(values[len(values)-1])

	switch {
	case last > first*1.5:
		return "rising"
	case last < first*0.5:
		return "declining"
	case math.Abs(last-first)/first < 0.2:
		return "stable"
	default:
		return "fluctuating"
	}
}

// buildTopicNetwork turns pairwise co-occurrence counts into a graph
// with per-node connection statistics
func buildTopicNetwork(relationships map[string]int) TopicNetwork {
	network := TopicNetwork{Edges: make([]NetworkEdge, 0, len(relationships))}

	keys := make([]string, 0, len(relationships))
	for k := range relationships {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	nodeIndex := make(map[string]int)
	node := func(topic string) {
		if _, ok := nodeIndex[topic]; !ok {
			nodeIndex[topic] = len(network.Nodes)
			network.Nodes = append(network.Nodes, NetworkNode{ID: topic, Label: topic})
		}
	}

	for _, key := range keys {
		parts := strings.SplitN(key, "|", 2)
		weight := relationships[key]
		node(parts[0])
		node(parts[1])

		network.Edges = append(network.Edges, NetworkEdge{
			From:   parts[0],
			To:     parts[1],
			Weight: weight,
			Label:  fmt.Sprintf("%d co-occurrences", weight),
		})

		for _, topic := range parts {
			n := &network.Nodes[nodeIndex[topic]]
			n.Connections++
			n.Strength += weight
		}
	}

	sort.SliceStable(network.Edges, func(i, j int) bool {
		return network.Edges[i].Weight > network.Edges[j].Weight
	})
	return network
}

func (s *TopicService) topicInsights(topics []Topic, trends map[string]*TopicTrend, clusters []TopicCluster) []string {
	insights := make([]string, 0, 4)

	top := make([]string, 0, 5)
	for i, topic := range topics {
		if i == 5 {
			break
		}
		top = append(top, topic.Name)
	}
	insights = append(insights, "Most discussed topics: "+strings.Join(top, ", "))

	rising := make([]Topic, 0)
	for topic, trend := range trends {
		if trend.Trend == "rising" {
			rising = append(rising, Topic{Name: topic, Frequency: trend.Latest})
		}
	}
	sort.SliceStable(rising, func(i, j int) bool {
		if rising[i].Frequency != rising[j].Frequency {
			return rising[i].Frequency > rising[j].Frequency
		}
		return rising[i].Name < rising[j].Name
	})
	if len(rising) > 0 {
		names := make([]string, 0, 3)
		for i, t := range rising {
			if i == 3 {
				break
			}
			names = append(names, t.Name)
		}
		insights = append(insights, "Rising topics: "+strings.Join(names, ", "))
	}

	if len(clusters) > 0 {
		total := 0
		for _, c := range clusters {
			total += len(c.Topics)
		}
		avg := int(math.Round(float64(total) / float64(len(clusters))))
		insights = append(insights, fmt.Sprintf("Found %d topic clusters with average size %d", len(clusters), avg))
	}

	categories := make(map[string]bool)
	for _, topic := range topics {
		categories[s.categorizeTopic(topic.Name)] = true
	}
	insights = append(insights, fmt.Sprintf("Topic diversity: %d categories covered", len(categories)))

	return insights
}

func relationshipKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}

package classifier

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"infinite-experiment/contactimport/internal/patterns"
)

var professionalKeywords = regexp.MustCompile(`(?i)(?:опыт|работа|навыки|проекты|образование|квалификация|experience|skills|projects|education|qualification)`)

// analyzeValues returns the share of non-empty samples matching any category pattern
func analyzeValues(samples []string, category patterns.Category) (float64, string, []string) {
	values := nonEmpty(samples)
	if len(values) == 0 {
		return 0, "no values to analyze", nil
	}

	matches := 0
	for _, v := range values {
		for _, re := range category.Patterns {
			if re.MatchString(v) {
				matches++
				break
			}
		}
	}

	score := float64(matches) / float64(len(values))
	reason := fmt.Sprintf("%d of %d values match | score %.2f", matches, len(values), score)
	return score, reason, valueInsights(category.Name, values)
}

func valueInsights(category string, values []string) []string {
	var out []string

	switch category {
	case "email":
		if domains := emailDomains(values); len(domains) > 1 {
			out = append(out, fmt.Sprintf("%d distinct email domains", len(domains)))
		}
	case "telegram":
		out = append(out, "telegram formats: "+formatCounts(values, telegramFormat))
	case "description":
		total := 0
		for _, v := range values {
			total += utf8.RuneCountInString(v)
		}
		avg := math.Round(float64(total) / float64(len(values)))
		out = append(out, fmt.Sprintf("average description length: %d characters", int(avg)))
		for _, v := range values {
			if professionalKeywords.MatchString(v) {
				out = append(out, "contains professional keywords")
				break
			}
		}
	case "linkedin":
		out = append(out, fmt.Sprintf("linkedin profiles: %d", countContaining(values, "linkedin.com")))
	case "instagram":
		out = append(out, fmt.Sprintf("instagram profiles: %d", countContaining(values, "instagram.com")))
	case "twitter":
		out = append(out, fmt.Sprintf("twitter profiles: %d", countContaining(values, "twitter.com")))
	case "social_media":
		if platforms := socialPlatforms(values); len(platforms) > 0 {
			out = append(out, "platforms: "+strings.Join(platforms, ", "))
		}
	}
	return out
}

// insights are attached to every reported category
func insights(category string, samples []string) []string {
	values := nonEmpty(samples)
	if len(values) == 0 {
		return nil
	}

	var out []string
	switch category {
	case "email":
		if domains := emailDomains(values); len(domains) > 1 {
			out = append(out, "domains: "+strings.Join(domains, ", "))
		}
	case "phone":
		out = append(out, "phone formats: "+formatCounts(values, phoneFormat))
	}

	unique := make(map[string]struct{}, len(values))
	for _, v := range values {
		unique[v] = struct{}{}
	}
	if uniqueness := float64(len(unique)) / float64(len(values)) * 100; uniqueness < 100 {
		out = append(out, fmt.Sprintf("uniqueness: %d%%", int(math.Round(uniqueness))))
	}
	return out
}

func suggestions(category string, samples []string) []string {
	values := nonEmpty(samples)
	if len(values) == 0 {
		return nil
	}

	switch category {
	case "email":
		for _, v := range values {
			if patterns.HasUpper(v) {
				return []string{"normalize email to lower case"}
			}
		}
	case "phone":
		for _, v := range values {
			if !strings.HasPrefix(v, "+7") && !strings.HasPrefix(v, "8") {
				return []string{"normalize phone to +7XXXXXXXXXX"}
			}
		}
	}
	return nil
}

func phoneFormat(v string) string {
	switch {
	case strings.HasPrefix(v, "+7"):
		return "international"
	case strings.HasPrefix(v, "8"):
		return "domestic"
	default:
		return "other"
	}
}

func telegramFormat(v string) string {
	switch {
	case strings.HasPrefix(v, "@"):
		return "username"
	case strings.HasPrefix(v, "t.me/"):
		return "t.me link"
	case strings.Contains(v, "t.me"):
		return "full link"
	default:
		return "plain name"
	}
}

// formatCounts renders "label (n)" pairs in first-seen order
func formatCounts(values []string, classify func(string) string) string {
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		label := classify(v)
		if counts[label] == 0 {
			order = append(order, label)
		}
		counts[label]++
	}

	parts := make([]string, len(order))
	for i, label := range order {
		parts[i] = fmt.Sprintf("%s (%d)", label, counts[label])
	}
	return strings.Join(parts, ", ")
}

func emailDomains(values []string) []string {
	seen := make(map[string]struct{})
	var domains []string
	for _, v := range values {
		parts := strings.SplitN(v, "@", 3)
		if len(parts) < 2 || parts[1] == "" {
			continue
		}
		if _, ok := seen[parts[1]]; !ok {
			seen[parts[1]] = struct{}{}
			domains = append(domains, parts[1])
		}
	}
	return domains
}

func socialPlatforms(values []string) []string {
	hosts := map[string]string{
		"linkedin.com":  "LinkedIn",
		"instagram.com": "Instagram",
		"twitter.com":   "Twitter",
		"facebook.com":  "Facebook",
		"tiktok.com":    "TikTok",
		"youtube.com":   "YouTube",
	}
	found := make(map[string]struct{})
	for _, v := range values {
		for host, label := range hosts {
			if strings.Contains(v, host) {
				found[label] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(found))
	for label := range found {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

func countContaining(values []string, sub string) int {
	n := 0
	for _, v := range values {
		if strings.Contains(v, sub) {
			n++
		}
	}
	return n
}

func nonEmpty(samples []string) []string {
	out := make([]string, 0, len(samples))
	for _, s := range samples {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

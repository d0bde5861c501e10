package statistics

import (
	"math"
	"sort"
	"strconv"

	"formify.app/models"
)

// MaxBins bounds the number of histogram bins for integer questions.
const MaxBins = 10

type Bucket struct {
	Label      string `json:"label"`
	OptionID   *uint  `json:"optionId,omitempty"`
	Start      *int64 `json:"start,omitempty"`
	End        *int64 `json:"end,omitempty"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type QuestionStats struct {
	QuestionID     uint                `json:"questionId"`
	Title          string              `json:"title"`
	Type           models.QuestionType `json:"type"`
	Required       bool                `json:"required"`
	ResponseCount  int                 `json:"responseCount"`
	Respondents    int                 `json:"respondents"`
	CompletionRate int                 `json:"completionRate"`
	NoData         bool                `json:"noData"`
	Buckets        []Bucket            `json:"buckets,omitempty"`
	TextResponses  []string            `json:"textResponses,omitempty"`
}

type Summary struct {
	TotalForms int             `json:"totalForms"`
	Questions  []QuestionStats `json:"questions"`
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(whole)))
}

// Aggregate computes per-question statistics for the forms submitted to a template.
// Questions are reported in the order given.
func Aggregate(questions []models.Question, forms []models.Form) Summary {
	byQuestion := make(map[uint][]models.Answer)
	for _, f := range forms {
		for _, a := range f.Answers {
			byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a)
		}
	}

	summary := Summary{TotalForms: len(forms), Questions: make([]QuestionStats, 0, len(questions))}
	for _, q := range questions {
		summary.Questions = append(summary.Questions, questionStats(q, byQuestion[q.ID], len(forms)))
	}
	return summary
}

func questionStats(q models.Question, answers []models.Answer, totalForms int) QuestionStats {
	stats := QuestionStats{
		QuestionID:    q.ID,
		Title:         q.Title,
		Type:          q.Type,
		Required:      q.Required,
		ResponseCount: len(answers),
	}
	respondents := make(map[uint]struct{}, len(answers))
	for _, a := range answers {
		respondents[a.FormID] = struct{}{}
	}
	stats.Respondents = len(respondents)
	stats.CompletionRate = percent(stats.Respondents, totalForms)

	if len(answers) == 0 {
		stats.NoData = true
		return stats
	}

	switch {
	case q.Type.IsChoice():
		stats.Buckets = optionBuckets(q.Options, answers)
	case q.Type.IsText():
		for _, a := range answers {
			if a.TextValue != nil && *a.TextValue != "" {
				stats.TextResponses = append(stats.TextResponses, *a.TextValue)
			}
		}
	default:
		values := make([]int64, 0, len(answers))
		for _, a := range answers {
			if a.IntValue != nil {
				values = append(values, *a.IntValue)
			}
		}
		stats.Buckets = Histogram(values)
	}
	return stats
}

// optionBuckets returns one bucket per option, in option order. Answers pointing at
// options that no longer exist are ignored.
func optionBuckets(options []models.Option, answers []models.Answer) []Bucket {
	counts := make(map[uint]int, len(options))
	for _, a := range answers {
		if a.OptionID != nil {
			counts[*a.OptionID]++
		}
	}
	buckets := make([]Bucket, 0, len(options))
	for _, o := range options {
		id := o.ID
		buckets = append(buckets, Bucket{
			Label:      o.Value,
			OptionID:   &id,
			Count:      counts[o.ID],
			Percentage: percent(counts[o.ID], len(answers)),
		})
	}
	return buckets
}

// Histogram buckets integer answers. Up to MaxBins distinct values get one bucket each.
// Otherwise equal-width bins partition [min, max]: the last bin ends at max and bins
// that would start after max are not produced.
func Histogram(values []int64) []Bucket {
	if len(values) == 0 {
		return nil
	}
	counts := make(map[int64]int)
	for _, v := range values {
		counts[v]++
	}
	distinct := make([]int64, 0, len(counts))
	for v := range counts {
		distinct = append(distinct, v)
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i] < distinct[j] })

	total := len(values)
	if len(distinct) <= MaxBins {
		buckets := make([]Bucket, 0, len(distinct))
		for _, v := range distinct {
			start, end := v, v
			buckets = append(buckets, Bucket{
				Label:      strconv.FormatInt(v, 10),
				Start:      &start,
				End:        &end,
				Count:      counts[v],
				Percentage: percent(counts[v], total),
			})
		}
		return buckets
	}

	lo, hi := distinct[0], distinct[len(distinct)-1]
	width := hi - lo + 1
	binCount := int64(MaxBins)
	if width < binCount {
		binCount = width
	}
	binSize := (width + binCount - 1) / binCount

	binCounts := make([]int, binCount)
	for _, v := range values {
		binCounts[(v-lo)/binSize]++
	}

	buckets := make([]Bucket, 0, binCount)
	for i := int64(0); i < binCount; i++ {
		start := lo + i*binSize
		if start > hi {
			break
		}
		end := start + binSize - 1
		if end > hi {
			end = hi
		}
		label := strconv.FormatInt(start, 10)
		if end != start {
			label += "-" + strconv.FormatInt(end, 10)
		}
		s, e := start, end
		buckets = append(buckets, Bucket{
			Label:      label,
			Start:      &s,
			End:        &e,
			Count:      binCounts[i],
			Percentage: percent(binCounts[i], total),
		})
	}
	return buckets
}

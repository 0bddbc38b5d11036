package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"surveyanalytics/internal/domains"

	"golang.org/x/sync/errgroup"
)

const DefaultTextSampleSize = 20

type Options struct {
	TextSampleSize int
}

func (o Options) sampleSize() int {
	if o.TextSampleSize <= 0 {
		return DefaultTextSampleSize
	}
	return o.TextSampleSize
}

// Sample is a response prepared for analysis.
type Sample struct {
	Answer    Answer
	SessionID string
	CreatedAt time.Time
}

type analyzerFunc func(q domains.Question, samples []Sample, opts Options) domains.QuestionAnalytics

var analyzers = map[domains.QuestionType]analyzerFunc{
	domains.QuestionScale:          analyzeScale,
	domains.QuestionLikert:         analyzeScale,
	domains.QuestionMultipleChoice: analyzeChoice,
	domains.QuestionText:           analyzeText,
	domains.QuestionNPS:            analyzeNPS,
}

// Samples coerces raw responses for one question.
func Samples(responses []domains.Response) []Sample {
	samples := make([]Sample, 0, len(responses))
	for _, r := range responses {
		samples = append(samples, Sample{
			Answer:    ParseAnswer(r.Answer),
			SessionID: r.SessionID,
			CreatedAt: r.CreatedAt,
		})
	}
	return samples
}

// Analyze computes the analytics of one question. It never fails: empty input
// yields a zeroed result and malformed answers are counted in Excluded.
func Analyze(q domains.Question, responses []domains.Response, opts Options) domains.QuestionAnalytics {
	samples := Samples(responses)
	analyze, ok := analyzers[q.Type]
	if !ok {
		result := baseResult(q)
		result.Distribution = declaredBuckets(q.Options)
		result.Excluded = len(samples)
		return result
	}
	return analyze(q, samples, opts)
}

// AnalyzeAll runs Analyze for every question with at most workers goroutines.
// Results keep the order of questions.
func AnalyzeAll(ctx context.Context, questions []domains.Question, byQuestion map[int64][]domains.Response, opts Options, workers int) ([]domains.QuestionAnalytics, error) {
	results := make([]domains.QuestionAnalytics, len(questions))
	if workers <= 0 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, q := range questions {
		i, q := i, q
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = Analyze(q, byQuestion[q.ID], opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func baseResult(q domains.Question) domains.QuestionAnalytics {
	return domains.QuestionAnalytics{
		QuestionID:   q.ID,
		Type:         q.Type,
		Distribution: []domains.Bucket{},
	}
}

func optionKey(opt domains.Option) string {
	value := ParseAnswer(opt.Value)
	switch value.Kind {
	case AnswerNumber:
		return formatNumber(value.num)
	case AnswerText:
		return value.text
	default:
		return opt.Label
	}
}

func declaredBuckets(options []domains.Option) []domains.Bucket {
	buckets := make([]domains.Bucket, 0, len(options))
	for _, opt := range options {
		buckets = append(buckets, domains.Bucket{
			Key:   optionKey(opt),
			Label: opt.Label,
			Emoji: opt.Emoji,
		})
	}
	return buckets
}

// fillPercentages assigns one-decimal percentages by largest remainder, so the
// buckets sum to exactly the rounded share of total they cover (100.0 when
// every counted answer falls into a bucket).
func fillPercentages(buckets []domains.Bucket, total int) {
	if total <= 0 {
		for i := range buckets {
			buckets[i].Percentage = 0
		}
		return
	}

	const unitsPerWhole = 1000 // tenths of a percent
	units := make([]int, len(buckets))
	order := make([]int, len(buckets))
	counted, assigned := 0, 0
	for i, b := range buckets {
		counted += b.Count
		units[i] = b.Count * unitsPerWhole / total
		assigned += units[i]
		order[i] = i
	}
	target := (counted*unitsPerWhole + total/2) / total

	remainder := func(i int) int { return buckets[i].Count * unitsPerWhole % total }
	sort.SliceStable(order, func(a, b int) bool { return remainder(order[a]) > remainder(order[b]) })
	for k := 0; assigned < target && k < len(order); k++ {
		units[order[k]]++
		assigned++
	}

	for i := range buckets {
		buckets[i].Percentage = float64(units[i]) / 10
	}
}

// optionNumber is the numeric value an option is counted under. Options
// without a value fall back to their label, matching the bucket key.
func optionNumber(opt domains.Option) (float64, bool) {
	value := ParseAnswer(opt.Value)
	if value.Kind == AnswerInvalid {
		return TextAnswer(opt.Label).Number()
	}
	return value.Number()
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

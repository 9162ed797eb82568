package ingest

import "strings"

// Pipeline composes shape detection, normalization, and blank-title
// filtering for one fetch response.
type Pipeline struct {
	detector   *ShapeDetector
	normalizer *Normalizer
}

func NewPipeline(normalizer *Normalizer) *Pipeline {
	return &Pipeline{
		detector:   NewShapeDetector(),
		normalizer: normalizer,
	}
}

// Run turns one decoded backend response into displayable articles. Records
// whose title stays blank after every fallback are dropped here, not inside
// the normalizer. Zero articles is a valid outcome, not an error.
func (p *Pipeline) Run(response any) ([]Article, Report) {
	records, shape := p.detector.Run(response)

	report := Report{Shape: shape, Total: len(records)}
	articles := make([]Article, 0, len(records))
	for _, rec := range records {
		a := p.normalizer.Run(rec)
		if strings.TrimSpace(a.Title) == "" {
			report.Dropped++
			continue
		}
		articles = append(articles, a)
	}
	report.Kept = len(articles)

	return articles, report
}

package iep

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/learnscope/learnscope/internal/domain"
)

// ExportDocument is the print-ready structured form of an IEP, consumed by
// the external document-rendering collaborator. The core only defines the
// structured content; PDF layout happens elsewhere.
type ExportDocument struct {
	Title       string          `json:"title"`
	Student     string          `json:"student"`
	GeneratedAt string          `json:"generated_at"`
	Progress    string          `json:"progress"`
	Sections    []ExportSection `json:"sections"`
}

// ExportSection is one titled block of lines in the export document.
type ExportSection struct {
	Heading string   `json:"heading"`
	Lines   []string `json:"lines"`
}

// Export serializes an IEP into export-ready bytes. The output is a pure,
// deterministic function of the document.
func Export(doc *domain.IEP) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("export: nil IEP")
	}

	timeline := make([]string, 0, len(doc.Timeline))
	for _, m := range doc.Timeline {
		timeline = append(timeline, fmt.Sprintf("Week %d (%s): %s",
			m.Week, m.Due.Format("2006-01-02"), m.Label))
	}

	export := ExportDocument{
		Title:       "Individualized Education Plan",
		Student:     doc.StudentName,
		GeneratedAt: doc.GeneratedAt.Format(time.RFC3339),
		Progress:    fmt.Sprintf("%d/100", doc.ProgressScore),
		Sections: []ExportSection{
			{Heading: "Strengths", Lines: doc.Strengths},
			{Heading: "Areas for Support", Lines: doc.Weaknesses},
			{Heading: "Learning Style", Lines: []string{doc.LearningStyle}},
			{Heading: "Accommodations", Lines: doc.Accommodations},
			{Heading: "Short-Term Goals", Lines: doc.ShortTermGoals},
			{Heading: "Long-Term Goals", Lines: doc.LongTermGoals},
			{Heading: "Recommended Tools", Lines: doc.RecommendedTools},
			{Heading: "Accessibility Tips", Lines: doc.AccessibilityTips},
			{Heading: "Timeline", Lines: timeline},
		},
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export document: %w", err)
	}
	return data, nil
}

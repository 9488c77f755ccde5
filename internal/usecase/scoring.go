package usecase

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/user/aimpact-scanner/internal/entity"
)

// scoringPhase labels the instant-analysis factor set. The full framework
// has further phases computed offline; only this one runs in-request.
const scoringPhase = "instant"

const (
	pillarAIResponse  = "AI Response Optimization"
	pillarMachineRead = "Machine Readability"
)

// scoreFactors derives the instant factor set from a page snapshot. The
// rules are deliberately simple and deterministic: they stand in for the
// full scoring engine while producing rows in its exact contract shape.
func scoreFactors(snapshot *entity.PageSnapshot) []*entity.FactorResult {
	return []*entity.FactorResult{
		scoreTitle(snapshot),
		scoreMetaDescription(snapshot),
		scoreHTTPS(snapshot),
		scoreAccessibility(snapshot),
	}
}

// overallScore is the weight-normalized mean of factor scores, rounded
// to one decimal.
func overallScore(factors []*entity.FactorResult) float64 {
	var weightedSum, totalWeight float64
	for _, f := range factors {
		weightedSum += float64(f.Score) * f.Weight
		totalWeight += f.Weight
	}
	if totalWeight == 0 {
		return 0
	}
	return math.Round(weightedSum/totalWeight*10) / 10
}

func scoreTitle(snapshot *entity.PageSnapshot) *entity.FactorResult {
	start := time.Now()
	f := &entity.FactorResult{
		FactorID:   "AI.1.1",
		FactorName: "Page Title Presence & Quality",
		Pillar:     pillarAIResponse,
		Phase:      scoringPhase,
		Weight:     1.5,
		Confidence: 0.95,
	}

	length := len(snapshot.Title)
	switch {
	case length == 0:
		f.Score = 0
		f.Evidence = []string{"No page title found"}
		f.Recommendations = []string{"Add a descriptive <title> element; pages without titles are rarely cited by AI systems"}
	case length < 30:
		f.Score = 70
		f.Evidence = []string{fmt.Sprintf("Title present (%d characters): %q", length, snapshot.Title)}
		f.Recommendations = []string{"Expand the title toward 30-60 characters to carry more query-matching context"}
	case length <= 60:
		f.Score = 100
		f.Evidence = []string{fmt.Sprintf("Title present with optimal length (%d characters)", length)}
	default:
		f.Score = 80
		f.Evidence = []string{fmt.Sprintf("Title present but long (%d characters); may be truncated in AI summaries", length)}
		f.Recommendations = []string{"Shorten the title to 60 characters or fewer"}
	}

	f.ProcessingTimeMS = int(time.Since(start).Milliseconds())
	return f
}

func scoreMetaDescription(snapshot *entity.PageSnapshot) *entity.FactorResult {
	start := time.Now()
	f := &entity.FactorResult{
		FactorID:   "AI.1.2",
		FactorName: "Meta Description Quality",
		Pillar:     pillarAIResponse,
		Phase:      scoringPhase,
		Weight:     1.2,
		Confidence: 0.9,
	}

	description := snapshot.Description
	length := len(description)
	switch {
	case description == entity.NoMetaDescription || length == 0:
		f.Score = 20
		f.Evidence = []string{"No meta description found"}
		f.Recommendations = []string{"Add a meta description summarizing the page in 120-160 characters"}
	case length >= 120 && length <= 160:
		f.Score = 100
		f.Evidence = []string{fmt.Sprintf("Meta description present with optimal length (%d characters)", length)}
	default:
		f.Score = 70
		f.Evidence = []string{fmt.Sprintf("Meta description present (%d characters)", length)}
		f.Recommendations = []string{"Adjust the meta description toward 120-160 characters"}
	}

	f.ProcessingTimeMS = int(time.Since(start).Milliseconds())
	return f
}

func scoreHTTPS(snapshot *entity.PageSnapshot) *entity.FactorResult {
	start := time.Now()
	f := &entity.FactorResult{
		FactorID:   "M.2.1",
		FactorName: "HTTPS Security",
		Pillar:     pillarMachineRead,
		Phase:      scoringPhase,
		Weight:     1.0,
		Confidence: 1.0,
	}

	if strings.HasPrefix(strings.ToLower(snapshot.URL), "https://") {
		f.Score = 100
		f.Evidence = []string{"Page served over HTTPS"}
	} else {
		f.Score = 0
		f.Evidence = []string{"Page not served over HTTPS"}
		f.Recommendations = []string{"Serve the page over HTTPS; unencrypted pages are deprioritized across AI crawlers"}
	}

	f.ProcessingTimeMS = int(time.Since(start).Milliseconds())
	return f
}

func scoreAccessibility(snapshot *entity.PageSnapshot) *entity.FactorResult {
	start := time.Now()
	f := &entity.FactorResult{
		FactorID:   "M.2.2",
		FactorName: "Page Accessibility",
		Pillar:     pillarMachineRead,
		Phase:      scoringPhase,
		Weight:     1.3,
	}

	status := snapshot.HTTPStatusCode
	switch {
	case status == 200:
		f.Score = 100
		f.Confidence = 1.0
		f.Evidence = []string{"Page returned HTTP 200"}
	case status >= 200 && status < 400:
		f.Score = 85
		f.Confidence = 0.9
		f.Evidence = []string{fmt.Sprintf("Page returned HTTP %d", status)}
		f.Recommendations = []string{"Serve the canonical content with a direct 200 response where possible"}
	case status == 0:
		// Main-document response event was not observed; the page still
		// rendered, so score neutrally with low confidence.
		f.Score = 50
		f.Confidence = 0.4
		f.Evidence = []string{"HTTP status of the main document could not be determined"}
	default:
		f.Score = 10
		f.Confidence = 1.0
		f.Evidence = []string{fmt.Sprintf("Page returned HTTP error status %d", status)}
		f.Recommendations = []string{"Fix the error response; AI crawlers will not index failing pages"}
	}

	f.ProcessingTimeMS = int(time.Since(start).Milliseconds())
	return f
}

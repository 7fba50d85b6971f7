// Package analysis provides lightweight, deterministic analysis of recorded
// navigation sessions. Everything is plain statistics over the event
// journal.
//
// Key capabilities:
//   - Screen hotspot detection via Z-score analysis of visit counts
//   - Back-stack depth trend via linear regression
//   - Tab usage breakdown
//   - Back cascade outcome counts
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Mr-Dark-debug/wayfinder/internal/database"
	"github.com/Mr-Dark-debug/wayfinder/pkg/timeutil"
)

// Analyzer performs analysis on journaled sessions.
type Analyzer struct {
	store database.Store
}

// NewAnalyzer creates a new analysis engine backed by the given store.
func NewAnalyzer(store database.Store) *Analyzer {
	return &Analyzer{store: store}
}

func (a *Analyzer) sessionEvents(sessionID string) ([]*database.NavEvent, error) {
	events, err := a.store.QueryEvents(database.EventFilter{SessionID: &sessionID, Limit: math.MaxInt32})
	if err != nil {
		return nil, fmt.Errorf("querying events of session %s: %w", sessionID, err)
	}
	return events, nil
}

// ============================================================
// Screen Hotspot Detection
// ============================================================

// ScreenHotspot identifies a screen opened far more often than the others.
type ScreenHotspot struct {
	Screen   string  `json:"screen"`
	Visits   int     `json:"visits"`
	ZScore   float64 `json:"z_score"`
	Severity string  `json:"severity"` // "low", "medium", "high"
}

// DetectScreenHotspots calculates the Z-score of visit counts across every
// screen opened in a session.
//
// A Z-score > 2.0 is a "medium" hotspot, > 3.0 a "high" one.
func (a *Analyzer) DetectScreenHotspots(sessionID string) ([]ScreenHotspot, error) {
	events, err := a.sessionEvents(sessionID)
	if err != nil {
		return nil, err
	}
	return screenHotspots(events), nil
}

func screenHotspots(events []*database.NavEvent) []ScreenHotspot {
	visits := make(map[string]int)
	for _, ev := range events {
		if ev.Kind == database.KindOpen && ev.Screen != nil {
			visits[*ev.Screen]++
		}
	}
	if len(visits) < 2 {
		return nil
	}

	var sum, sumSq float64
	for _, v := range visits {
		sum += float64(v)
		sumSq += float64(v) * float64(v)
	}
	n := float64(len(visits))
	mean := sum / n
	stddev := math.Sqrt((sumSq / n) - (mean * mean))
	if stddev == 0 {
		return nil
	}

	var hotspots []ScreenHotspot
	for screen, v := range visits {
		zScore := (float64(v) - mean) / stddev
		if zScore <= 1.5 {
			continue
		}
		severity := "low"
		if zScore > 3.0 {
			severity = "high"
		} else if zScore > 2.0 {
			severity = "medium"
		}
		hotspots = append(hotspots, ScreenHotspot{
			Screen:   screen,
			Visits:   v,
			ZScore:   math.Round(zScore*100) / 100,
			Severity: severity,
		})
	}

	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].ZScore != hotspots[j].ZScore {
			return hotspots[i].ZScore > hotspots[j].ZScore
		}
		return hotspots[i].Screen < hotspots[j].Screen
	})
	return hotspots
}

// ============================================================
// Depth Trend Analysis
// ============================================================

// DepthTrendReport describes how the total back-stack depth evolved.
type DepthTrendReport struct {
	Samples    int     `json:"samples"`
	MaxDepth   int     `json:"max_depth"`
	FinalDepth int     `json:"final_depth"`
	Slope      float64 `json:"slope"` // Depth per minute
	Intercept  float64 `json:"intercept"`
	RSquared   float64 `json:"r_squared"`
	Prediction int     `json:"prediction_30_min"`
	IsRunaway  bool    `json:"is_runaway"` // History keeps growing and is never unwound
}

// dataPoint represents a single time-series observation for regression analysis.
type dataPoint struct {
	x float64
	y float64
}

// AnalyzeDepthTrend regresses back-stack depth over time. A steady positive
// slope means screens are opened with history and never closed.
func (a *Analyzer) AnalyzeDepthTrend(sessionID string) (*DepthTrendReport, error) {
	events, err := a.sessionEvents(sessionID)
	if err != nil {
		return nil, err
	}
	return depthTrend(events), nil
}

func depthTrend(events []*database.NavEvent) *DepthTrendReport {
	report := &DepthTrendReport{Samples: len(events)}
	if len(events) == 0 {
		return report
	}

	base := events[0].Timestamp
	points := make([]dataPoint, 0, len(events))
	for _, ev := range events {
		if ev.Depth > report.MaxDepth {
			report.MaxDepth = ev.Depth
		}
		points = append(points, dataPoint{
			x: float64(ev.Timestamp-base) / float64(time.Minute),
			y: float64(ev.Depth),
		})
	}
	report.FinalDepth = events[len(events)-1].Depth

	if len(points) < 2 {
		return report
	}

	slope, intercept, rSquared := linearRegression(points)
	last := points[len(points)-1].x
	prediction := slope*(last+30) + intercept

	report.Slope = math.Round(slope*1000) / 1000
	report.Intercept = math.Round(intercept*100) / 100
	report.RSquared = math.Round(rSquared*1000) / 1000
	report.Prediction = int(math.Max(0, prediction))
	report.IsRunaway = slope > 0.5 && rSquared > 0.7
	return report
}

// linearRegression computes ordinary least squares regression.
// Returns slope (m), intercept (b), and R-squared goodness of fit.
func linearRegression(points []dataPoint) (slope, intercept, rSquared float64) {
	n := float64(len(points))
	if n < 2 {
		return 0, 0, 0
	}

	var sumX, sumY, sumXY, sumX2 float64
	for _, p := range points {
		sumX += p.x
		sumY += p.y
		sumXY += p.x * p.y
		sumX2 += p.x * p.x
	}

	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, sumY / n, 0
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for _, p := range points {
		predicted := slope*p.x + intercept
		ssRes += (p.y - predicted) * (p.y - predicted)
		ssTot += (p.y - meanY) * (p.y - meanY)
	}

	if ssTot == 0 {
		rSquared = 1.0
	} else {
		rSquared = 1 - ssRes/ssTot
	}
	return slope, intercept, rSquared
}

// ============================================================
// Tab Usage
// ============================================================

// TabUsage summarises the activity of one tab.
type TabUsage struct {
	Tab        string  `json:"tab"`
	Switches   int     `json:"switches"`
	Opens      int     `json:"opens"`
	Closes     int     `json:"closes"`
	Percentage float64 `json:"percentage"` // Share of all tab activity
}

// TabUsageBreakdown counts per-tab activity in a session, busiest first.
func (a *Analyzer) TabUsageBreakdown(sessionID string) ([]TabUsage, error) {
	events, err := a.sessionEvents(sessionID)
	if err != nil {
		return nil, err
	}
	return tabUsage(events), nil
}

func tabUsage(events []*database.NavEvent) []TabUsage {
	byTab := make(map[string]*TabUsage)
	total := 0
	for _, ev := range events {
		if ev.Tab == nil {
			continue
		}
		u, ok := byTab[*ev.Tab]
		if !ok {
			u = &TabUsage{Tab: *ev.Tab}
			byTab[*ev.Tab] = u
		}
		switch ev.Kind {
		case database.KindSwitchTab:
			u.Switches++
		case database.KindOpen:
			u.Opens++
		case database.KindClose:
			u.Closes++
		default:
			continue
		}
		total++
	}

	usage := make([]TabUsage, 0, len(byTab))
	for _, u := range byTab {
		if total > 0 {
			activity := u.Switches + u.Opens + u.Closes
			u.Percentage = math.Round(float64(activity)/float64(total)*10000) / 100
		}
		usage = append(usage, *u)
	}
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].Percentage != usage[j].Percentage {
			return usage[i].Percentage > usage[j].Percentage
		}
		return usage[i].Tab < usage[j].Tab
	})
	return usage
}

// ============================================================
// Back Outcomes
// ============================================================

// BackOutcomes counts which stage of the back cascade consumed each back
// request.
func (a *Analyzer) BackOutcomes(sessionID string) (map[string]int, error) {
	events, err := a.sessionEvents(sessionID)
	if err != nil {
		return nil, err
	}
	return backOutcomes(events), nil
}

func backOutcomes(events []*database.NavEvent) map[string]int {
	out := make(map[string]int)
	for _, ev := range events {
		if ev.Kind != database.KindBack {
			continue
		}
		outcome := "unknown"
		if ev.Outcome != nil {
			outcome = *ev.Outcome
		}
		out[outcome]++
	}
	return out
}

// ============================================================
// Full Analysis Report
// ============================================================

// Report is the complete output of `wayfinder report`.
type Report struct {
	SessionID      string                 `json:"session_id"`
	GeneratedAt    string                 `json:"generated_at"`
	Stats          *database.SessionStats `json:"stats"`
	ScreenHotspots []ScreenHotspot        `json:"screen_hotspots"`
	DepthTrend     *DepthTrendReport      `json:"depth_trend"`
	TabUsage       []TabUsage             `json:"tab_usage"`
	BackOutcomes   map[string]int         `json:"back_outcomes"`
	Warnings       []string               `json:"warnings"`
}

// FullAnalysis runs every analysis pass over one session.
func (a *Analyzer) FullAnalysis(sessionID string) (*Report, error) {
	report := &Report{
		SessionID:   sessionID,
		GeneratedAt: time.Now().Format(time.RFC3339),
	}

	stats, err := a.store.GetSessionStats(sessionID)
	if err != nil {
		return nil, fmt.Errorf("gathering session stats: %w", err)
	}
	report.Stats = stats

	events, err := a.sessionEvents(sessionID)
	if err != nil {
		return nil, err
	}
	report.ScreenHotspots = screenHotspots(events)
	report.DepthTrend = depthTrend(events)
	report.TabUsage = tabUsage(events)
	report.BackOutcomes = backOutcomes(events)

	if report.DepthTrend.IsRunaway {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("RUNAWAY BACK STACK: depth grows %.2f entries/min (R²=%.3f). "+
				"Screens are opened with history and never closed.", report.DepthTrend.Slope, report.DepthTrend.RSquared))
	}
	for _, h := range report.ScreenHotspots {
		if h.Severity == "high" {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("SCREEN HOTSPOT: %s opened %d times (Z-score: %.2f).", h.Screen, h.Visits, h.ZScore))
		}
	}
	if stats.Errors > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%d navigation commands failed.", stats.Errors))
	}

	return report, nil
}

// FormatReport generates a human-readable markdown report.
func (a *Analyzer) FormatReport(report *Report) string {
	var b strings.Builder

	b.WriteString("# Wayfinder Session Report\n\n")
	b.WriteString(fmt.Sprintf("**Session:** `%s`\n", report.SessionID))
	b.WriteString(fmt.Sprintf("**Generated:** %s\n\n", report.GeneratedAt))

	if report.Stats != nil {
		b.WriteString("## Summary\n\n")
		b.WriteString("| Metric | Value |\n")
		b.WriteString("|--------|-------|\n")
		b.WriteString(fmt.Sprintf("| Events | %d |\n", report.Stats.TotalEvents))
		b.WriteString(fmt.Sprintf("| Screens Opened | %d |\n", report.Stats.Opens))
		b.WriteString(fmt.Sprintf("| Screens Closed | %d |\n", report.Stats.Closes))
		b.WriteString(fmt.Sprintf("| Tab Switches | %d |\n", report.Stats.TabSwitches))
		b.WriteString(fmt.Sprintf("| Back Requests | %d |\n", report.Stats.Backs))
		b.WriteString(fmt.Sprintf("| Failed Commands | %d |\n", report.Stats.Errors))
		b.WriteString(fmt.Sprintf("| Distinct Screens | %d |\n", report.Stats.DistinctScreens))
		b.WriteString(fmt.Sprintf("| Max Depth | %d |\n", report.Stats.MaxDepth))
		b.WriteString(fmt.Sprintf("| Duration | %s |\n\n", timeutil.FormatDuration(report.Stats.DurationMs)))
	}

	if len(report.ScreenHotspots) > 0 {
		b.WriteString("## Screen Hotspots\n\n")
		b.WriteString("| Screen | Visits | Z-Score | Severity |\n")
		b.WriteString("|--------|--------|---------|----------|\n")
		for _, h := range report.ScreenHotspots {
			b.WriteString(fmt.Sprintf("| %s | %d | %.2f | %s |\n", h.Screen, h.Visits, h.ZScore, h.Severity))
		}
		b.WriteString("\n")
	}

	if dt := report.DepthTrend; dt != nil && dt.Samples > 0 {
		b.WriteString("## Back-Stack Depth\n\n")
		b.WriteString(fmt.Sprintf("- **Max Depth:** %d\n", dt.MaxDepth))
		b.WriteString(fmt.Sprintf("- **Final Depth:** %d\n", dt.FinalDepth))
		b.WriteString(fmt.Sprintf("- **Trend:** %.3f entries/min\n", dt.Slope))
		b.WriteString(fmt.Sprintf("- **R² Fit:** %.3f\n", dt.RSquared))
		b.WriteString(fmt.Sprintf("- **30-min Prediction:** %d entries\n", dt.Prediction))
		if dt.IsRunaway {
			b.WriteString("- **WARNING:** History is never unwound!\n")
		}
		b.WriteString("\n")
	}

	if len(report.TabUsage) > 0 {
		b.WriteString("## Tab Usage\n\n")
		b.WriteString("| Tab | Switches | Opens | Closes | % |\n")
		b.WriteString("|-----|----------|-------|--------|---|\n")
		for _, u := range report.TabUsage {
			b.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %.1f%% |\n",
				u.Tab, u.Switches, u.Opens, u.Closes, u.Percentage))
		}
		b.WriteString("\n")
	}

	if len(report.BackOutcomes) > 0 {
		b.WriteString("## Back Requests\n\n")
		outcomes := make([]string, 0, len(report.BackOutcomes))
		for o := range report.BackOutcomes {
			outcomes = append(outcomes, o)
		}
		sort.Strings(outcomes)
		for _, o := range outcomes {
			b.WriteString(fmt.Sprintf("- **%s:** %d\n", o, report.BackOutcomes[o]))
		}
		b.WriteString("\n")
	}

	if len(report.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range report.Warnings {
			b.WriteString(fmt.Sprintf("- %s\n", w))
		}
	}

	return b.String()
}

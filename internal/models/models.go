package models

// ViewID identifies one of the dashboard's data views
type ViewID int

const (
	ViewCriticalIssues ViewID = iota
	ViewDailySummary
	ViewProcedureHistory
)

// AllViews lists the views in tab order
var AllViews = []ViewID{ViewCriticalIssues, ViewDailySummary, ViewProcedureHistory}

// String returns the view's display title
func (v ViewID) String() string {
	switch v {
	case ViewCriticalIssues:
		return "Critical Issues"
	case ViewDailySummary:
		return "Daily Summary"
	case ViewProcedureHistory:
		return "Procedure History"
	default:
		return "Unknown"
	}
}

// Slug returns a file-name-safe identifier for the view
func (v ViewID) Slug() string {
	switch v {
	case ViewCriticalIssues:
		return "critical_issues"
	case ViewDailySummary:
		return "daily_summary"
	case ViewProcedureHistory:
		return "procedure_history"
	default:
		return "unknown"
	}
}

// ViewMode identifies the current top-level UI mode
type ViewMode int

const (
	NormalMode ViewMode = iota
	HelpMode
)

// AppState holds the application's UI state
type AppState struct {
	Width      int
	Height     int
	ActiveView ViewID
	ViewMode   ViewMode
}

// NewAppState creates a new AppState with defaults
func NewAppState() AppState {
	return AppState{
		Width:      80,
		Height:     24,
		ActiveView: ViewCriticalIssues,
		ViewMode:   NormalMode,
	}
}

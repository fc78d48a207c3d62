package resources

import "errors"

// Browser errors
var (
	// ErrInvalidOption indicates a selection that is not among the options
	// offered at the current level.
	ErrInvalidOption = errors.New("selection is not an available option")

	// ErrWrongLevel indicates a selection made out of order, e.g. picking a
	// subject before a grade.
	ErrWrongLevel = errors.New("selection does not match the current browse level")
)

// Level identifies a step of the drill-down.
type Level int

// Drill-down levels, in order.
const (
	LevelGrade Level = iota
	LevelSubject
	LevelType
	LevelList
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelGrade:
		return "grade"
	case LevelSubject:
		return "subject"
	case LevelType:
		return "type"
	case LevelList:
		return "list"
	}
	return "unknown"
}

// Browser walks the catalog one level at a time: grade, then subject, then
// resource type, then the matching resources. Selections advance the level;
// JumpTo steps back to an earlier level, clearing everything selected at or
// after it.
type Browser struct {
	catalog *Catalog
	grade   string
	subject string
	rtype   string
}

// NewBrowser creates a browser positioned at grade selection.
func NewBrowser(catalog *Catalog) *Browser {
	if catalog == nil {
		panic("resources.NewBrowser: catalog cannot be nil")
	}
	return &Browser{catalog: catalog}
}

// Level reports the current drill-down level, derived from which selections
// have been made.
func (b *Browser) Level() Level {
	switch {
	case b.grade == "":
		return LevelGrade
	case b.subject == "":
		return LevelSubject
	case b.rtype == "":
		return LevelType
	default:
		return LevelList
	}
}

// Options returns the choices offered at the current level. At the list
// level there are no further choices and Options returns nil; use Resources.
func (b *Browser) Options() []string {
	switch b.Level() {
	case LevelGrade:
		return b.catalog.Grades()
	case LevelSubject:
		return b.catalog.Subjects(b.grade)
	case LevelType:
		return b.catalog.Types(b.grade, b.subject)
	default:
		return nil
	}
}

// Resources returns the matching resources once all three selections are
// made, and nil before that.
func (b *Browser) Resources() []Resource {
	if b.Level() != LevelList {
		return nil
	}
	return b.catalog.Find(b.grade, b.subject, b.rtype)
}

// SelectGrade picks a grade and advances to subject selection.
func (b *Browser) SelectGrade(grade string) error {
	if b.Level() != LevelGrade {
		return ErrWrongLevel
	}
	if !contains(b.catalog.Grades(), grade) {
		return ErrInvalidOption
	}
	b.grade = grade
	return nil
}

// SelectSubject picks a subject within the chosen grade and advances to
// type selection.
func (b *Browser) SelectSubject(subject string) error {
	if b.Level() != LevelSubject {
		return ErrWrongLevel
	}
	if !contains(b.catalog.Subjects(b.grade), subject) {
		return ErrInvalidOption
	}
	b.subject = subject
	return nil
}

// SelectType picks a resource type within the chosen grade and subject and
// advances to the resource list.
func (b *Browser) SelectType(resourceType string) error {
	if b.Level() != LevelType {
		return ErrWrongLevel
	}
	if !contains(b.catalog.Types(b.grade, b.subject), resourceType) {
		return ErrInvalidOption
	}
	b.rtype = resourceType
	return nil
}

// JumpTo returns to an earlier level, clearing every selection made at or
// after it. Jumping to the current or a later level is a no-op.
func (b *Browser) JumpTo(level Level) {
	if level <= LevelGrade {
		b.grade = ""
	}
	if level <= LevelSubject {
		b.subject = ""
	}
	if level <= LevelType {
		b.rtype = ""
	}
}

// Breadcrumbs returns the selections made so far, in drill-down order.
func (b *Browser) Breadcrumbs() []string {
	var crumbs []string
	if b.grade != "" {
		crumbs = append(crumbs, b.grade)
	}
	if b.subject != "" {
		crumbs = append(crumbs, b.subject)
	}
	if b.rtype != "" {
		crumbs = append(crumbs, b.rtype)
	}
	return crumbs
}

// Selections returns the current grade, subject, and type filters; empty
// strings mark levels not yet selected.
func (b *Browser) Selections() (grade, subject, resourceType string) {
	return b.grade, b.subject, b.rtype
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

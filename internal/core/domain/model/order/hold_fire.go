package order

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/pkg/errs"
)

// HoldItems gates the listed lines from kitchen dispatch. Lines that are
// already held are skipped rather than failed so repeated holds are safe;
// a line that was already sent cannot be held and fails the whole command.
// Returns nil without an event when every listed line is already held.
func (o *Order) HoldItems(lineIDs []kernel.UUID, heldBy kernel.UUID, reason string) (*LinesHeld, error) {
	if err := o.requireMutable(); err != nil {
		return nil, err
	}

	if err := errors.Join(
		validateLineIDList(lineIDs),
		validateActor("held by", heldBy),
	); err != nil {
		return nil, err
	}

	var targets []kernel.UUID
	for _, lineID := range lineIDs {
		line, err := o.findLine(lineID)
		if err != nil {
			return nil, err
		}
		if line.IsHeld() {
			continue
		}
		if _, err := line.Status().Hold(); err != nil {
			return nil, err
		}
		targets = append(targets, lineID)
	}
	if len(targets) == 0 {
		return nil, nil
	}

	return &LinesHeld{
		LineIDs: targets,
		HeldBy:  heldBy,
		Reason:  reason,
		HeldAt:  time.Now().UTC(),
	}, nil
}

// ReleaseItems returns the listed held lines to Pending so a subsequent
// Send dispatches them. Lines already pending are skipped; dispatched or
// voided lines fail the command.
func (o *Order) ReleaseItems(lineIDs []kernel.UUID, releasedBy kernel.UUID) (*LinesReleased, error) {
	if err := o.requireMutable(); err != nil {
		return nil, err
	}

	if err := errors.Join(
		validateLineIDList(lineIDs),
		validateActor("released by", releasedBy),
	); err != nil {
		return nil, err
	}

	var targets []kernel.UUID
	for _, lineID := range lineIDs {
		line, err := o.findLine(lineID)
		if err != nil {
			return nil, err
		}
		if line.Status() == LineStatusPending {
			continue
		}
		if _, err := line.Status().Release(); err != nil {
			return nil, err
		}
		targets = append(targets, lineID)
	}
	if len(targets) == 0 {
		return nil, nil
	}

	return &LinesReleased{
		LineIDs:    targets,
		ReleasedBy: releasedBy,
		ReleasedAt: time.Now().UTC(),
	}, nil
}

// SetItemCourse assigns a dining course to the listed lines. Courses can
// only change while a line has not been dispatched.
func (o *Order) SetItemCourse(lineIDs []kernel.UUID, course int, setBy kernel.UUID) (*LineCourseSet, error) {
	if err := o.requireMutable(); err != nil {
		return nil, err
	}

	if err := errors.Join(
		validateLineIDList(lineIDs),
		validateActor("set by", setBy),
	); err != nil {
		return nil, err
	}

	if course < 1 || course > maxCourse {
		return nil, errs.NewValueIsOutOfRangeError("course", course, 1, maxCourse)
	}

	for _, lineID := range lineIDs {
		line, err := o.findLine(lineID)
		if err != nil {
			return nil, err
		}
		if !line.Status().IsFireable() {
			return nil, errs.NewInvalidStateErrorWithCause(
				"line", fmt.Errorf("line %s is %s; courses are fixed after dispatch", lineID, line.Status()))
		}
	}

	return &LineCourseSet{
		LineIDs: lineIDs,
		Course:  course,
		SetBy:   setBy,
		SetAt:   time.Now().UTC(),
	}, nil
}

// FireItems force-dispatches the listed lines, bypassing holds. Every
// listed line must be fireable (Pending or Held); anything else fails the
// command so a fat-fingered fire never partially dispatches.
func (o *Order) FireItems(lineIDs []kernel.UUID, firedBy kernel.UUID) (*LinesFired, error) {
	if err := o.requireMutable(); err != nil {
		return nil, err
	}

	if err := errors.Join(
		validateLineIDList(lineIDs),
		validateActor("fired by", firedBy),
	); err != nil {
		return nil, err
	}

	for _, lineID := range lineIDs {
		line, err := o.findLine(lineID)
		if err != nil {
			return nil, err
		}
		if !line.Status().IsFireable() {
			return nil, errs.NewInvalidStateErrorWithCause(
				"line", fmt.Errorf("line %s is %s and cannot be fired", lineID, line.Status()))
		}
	}

	return &LinesFired{
		LineIDs: lineIDs,
		FiredBy: firedBy,
		FiredAt: time.Now().UTC(),
	}, nil
}

// FireCourse fires every fireable line of the given course. Returns nil
// without an event when the course holds nothing fireable.
func (o *Order) FireCourse(course int, firedBy kernel.UUID) (*LinesFired, error) {
	if err := o.requireMutable(); err != nil {
		return nil, err
	}
	if err := validateActor("fired by", firedBy); err != nil {
		return nil, err
	}
	if course < 1 || course > maxCourse {
		return nil, errs.NewValueIsOutOfRangeError("course", course, 1, maxCourse)
	}

	var targets []kernel.UUID
	for _, line := range o.lines {
		if line.Course() == course && line.Status().IsFireable() {
			targets = append(targets, line.ID())
		}
	}
	if len(targets) == 0 {
		return nil, nil
	}

	return &LinesFired{
		LineIDs: targets,
		FiredBy: firedBy,
		FiredAt: time.Now().UTC(),
	}, nil
}

// FireAll fires every currently held line in one shot. Returns nil without
// an event when nothing is held.
func (o *Order) FireAll(firedBy kernel.UUID) (*LinesFired, error) {
	if err := o.requireMutable(); err != nil {
		return nil, err
	}
	if err := validateActor("fired by", firedBy); err != nil {
		return nil, err
	}

	var targets []kernel.UUID
	for _, line := range o.lines {
		if line.IsHeld() {
			targets = append(targets, line.ID())
		}
	}
	if len(targets) == 0 {
		return nil, nil
	}

	return &LinesFired{
		LineIDs: targets,
		FiredBy: firedBy,
		FiredAt: time.Now().UTC(),
	}, nil
}

// UpdateLineStatus progresses a dispatched line along the preparation path
// (Sent, Preparing, Ready, Served) as reported by the kitchen collaborator.
func (o *Order) UpdateLineStatus(lineID kernel.UUID, next LineStatus, updatedBy kernel.UUID) (*LineStatusUpdated, error) {
	if err := o.requireMutable(); err != nil {
		return nil, err
	}

	line, err := o.findLine(lineID)
	if err != nil {
		return nil, err
	}
	if err := validateActor("updated by", updatedBy); err != nil {
		return nil, err
	}

	if _, err := line.Status().Progress(next); err != nil {
		return nil, err
	}

	return &LineStatusUpdated{
		LineID:    lineID,
		Status:    next,
		UpdatedBy: updatedBy,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// CourseLineSummary is the per-course breakdown of line dispatch state.
type CourseLineSummary struct {
	Course       int
	TotalCount   int
	PendingCount int
	HeldCount    int
	FiredCount   int
	HeldLineIDs  []kernel.UUID
}

// HoldSummary is a read-only view of everything currently held.
type HoldSummary struct {
	TotalHeldCount int
	Courses        []CourseLineSummary
}

// CourseSummary is a read-only view of line state grouped by course.
type CourseSummary struct {
	Courses []CourseLineSummary
}

// GetHoldSummary reports the currently held lines grouped by course.
// Courses with nothing held are omitted.
func (o *Order) GetHoldSummary() HoldSummary {
	byCourse := o.summarizeCourses()

	summary := HoldSummary{}
	for _, cs := range byCourse {
		if cs.HeldCount == 0 {
			continue
		}
		summary.TotalHeldCount += cs.HeldCount
		summary.Courses = append(summary.Courses, cs)
	}
	return summary
}

// GetCourseSummary reports every course's line counts by dispatch state.
// Voided lines are excluded.
func (o *Order) GetCourseSummary() CourseSummary {
	return CourseSummary{Courses: o.summarizeCourses()}
}

func (o *Order) summarizeCourses() []CourseLineSummary {
	grouped := make(map[int]*CourseLineSummary)
	for _, line := range o.lines {
		if line.IsVoided() {
			continue
		}

		cs, ok := grouped[line.Course()]
		if !ok {
			cs = &CourseLineSummary{Course: line.Course()}
			grouped[line.Course()] = cs
		}

		cs.TotalCount++
		switch {
		case line.IsHeld():
			cs.HeldCount++
			cs.HeldLineIDs = append(cs.HeldLineIDs, line.ID())
		case line.Status() == LineStatusPending:
			cs.PendingCount++
		case line.Status().IsDispatched():
			cs.FiredCount++
		}
	}

	courses := make([]CourseLineSummary, 0, len(grouped))
	for _, cs := range grouped {
		courses = append(courses, *cs)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Course < courses[j].Course })
	return courses
}

func validateLineIDList(lineIDs []kernel.UUID) error {
	if len(lineIDs) == 0 {
		return errs.NewValueIsRequiredError("line ids")
	}
	for _, id := range lineIDs {
		if err := id.Validate(); err != nil {
			return errs.NewValueIsRequiredErrorWithCause("line id", err)
		}
	}
	return nil
}

// internal/resume/controller.go
package resume

import "strings"

// Controller gates the hierarchy walk against a loaded checkpoint and an
// optional resume-name target. It holds two independent mechanisms:
//
// Position resume: skip categories until the checkpointed category is seen,
// then skip subcategories within that one category visit until the
// checkpointed subcategory is seen, then resume that subcategory's
// exhibitor loop at the stored index. The skip is a one-shot resume-point
// locator, not a persistent filter: every later category and subcategory is
// fully active and starts at index 0.
//
// Name gate: while a target company name is configured and not yet seen,
// every extracted record is discarded (the checkpoint still advances) until
// a record's name matches case-insensitively. The matching record itself is
// discarded; everything after it is written.
type Controller struct {
	resume *Position

	categoryFound    bool
	subcategoryFound bool
	indexConsumed    bool

	targetName string
	nameFound  bool
}

// NewController builds a controller from the loaded checkpoint (nil for
// none) and the configured resume-after company name ("" for none). fresh
// bypasses both mechanisms entirely.
func NewController(cp *Position, resumeAfter string, fresh bool) *Controller {
	c := &Controller{}

	if fresh {
		c.nameFound = true
		return c
	}

	// A checkpoint with either name missing cannot locate a resume point.
	if cp != nil && cp.Category != "" && cp.Subcategory != "" {
		pos := *cp
		c.resume = &pos
	}

	c.targetName = strings.ToLower(strings.TrimSpace(resumeAfter))
	c.nameFound = c.targetName == ""

	return c
}

// Resuming reports whether a position resume is still pending or in effect.
func (c *Controller) Resuming() bool {
	return c.resume != nil
}

// SkipCategory reports whether the walker should skip this category without
// entering it. The checkpointed category itself is entered.
func (c *Controller) SkipCategory(name string) bool {
	if c.resume == nil || c.categoryFound {
		return false
	}
	if name == c.resume.Category {
		c.categoryFound = true
		return false
	}
	return true
}

// SkipSubcategory reports whether the walker should skip this subcategory.
// Skipping only applies inside the checkpointed category's own visit; once
// the checkpointed subcategory is located, or in any other category, the
// walk is fully active.
func (c *Controller) SkipSubcategory(category, name string) bool {
	if c.resume == nil || c.subcategoryFound {
		return false
	}
	if category != c.resume.Category {
		return false
	}
	if name == c.resume.Subcategory {
		c.subcategoryFound = true
		return false
	}
	return true
}

// StartIndex returns the exhibitor index to start from in the given
// subcategory: the checkpointed index exactly once, for the exact
// checkpointed pair, and 0 everywhere else.
func (c *Controller) StartIndex(category, subcategory string) int {
	if c.resume == nil || c.indexConsumed {
		return 0
	}
	if category != c.resume.Category || subcategory != c.resume.Subcategory {
		return 0
	}
	c.indexConsumed = true
	return c.resume.ExhibitorIndex
}

// Admit reports whether an extracted record should be written. While the
// name gate is active records are discarded; the first case-insensitive
// match deactivates the gate for the rest of the run but is itself
// discarded, since it is already present in the output from a prior run.
func (c *Controller) Admit(companyName string) bool {
	if c.nameFound {
		return true
	}
	if strings.ToLower(strings.TrimSpace(companyName)) == c.targetName {
		c.nameFound = true
	}
	return false
}

// NameGateActive reports whether records are currently being discarded.
func (c *Controller) NameGateActive() bool {
	return !c.nameFound
}

package payload

// Delta is a sanitized partial-update body.
type Delta = map[string]any

// Reconciler turns an original and an updated record into the body of a
// partial update.
type Reconciler struct {
	Sanitizer *Sanitizer
}

func NewReconciler(s *Sanitizer) *Reconciler {
	if s == nil {
		s = defaultSanitizer
	}
	return &Reconciler{Sanitizer: s}
}

// Reconcile diffs the two records and sanitizes the result. changed only
// reports whether the diff was non-empty: a diff that sanitizes to an empty
// body, such as a field cleared to nil, is still a change to send.
func (r *Reconciler) Reconcile(original, updated map[string]any) (delta Delta, changed bool) {
	diff := ChangedFields(original, updated)
	if len(diff) == 0 {
		return diff, false
	}
	return r.Sanitizer.Sanitize(diff), true
}

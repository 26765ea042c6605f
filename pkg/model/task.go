package model

// Task records the role an embedding plays at query time. Models that
// expose a task dimension produce asymmetric vectors for document and
// query sides; models that do not still receive the field so the caller's
// intent is recorded on the fragment.
type Task string

const (
	// RetrievalDocument marks an embedding on the indexed-corpus side.
	RetrievalDocument Task = "RetrievalDocument"

	// RetrievalQuery marks an embedding on the query side.
	RetrievalQuery Task = "RetrievalQuery"

	// SemanticSimilarity marks a symmetric embedding with no
	// document/query asymmetry.
	SemanticSimilarity Task = "SemanticSimilarity"
)

// Valid reports whether t is one of the three recognized tasks.
func (t Task) Valid() bool {
	switch t {
	case RetrievalDocument, RetrievalQuery, SemanticSimilarity:
		return true
	default:
		return false
	}
}

// QueryTask returns the task a query-side embedding must carry to match
// the fragments a build with the given task-awareness produces:
// RetrievalQuery for a dual-indexed (task-aware) build, SemanticSimilarity
// for the single-embedding default. Every query adapter must derive its
// task from the same taskAware flag the build used, or it searches a
// subset of fragments the build never populated.
func QueryTask(taskAware bool) Task {
	if taskAware {
		return RetrievalQuery
	}
	return SemanticSimilarity
}

package domain

// Task is one stage of the build pipeline as seen by the dependency graph.
// It uses InternedString for names that are frequently repeated.
type Task struct {
	Name         InternedString
	Dependencies []InternedString
}

package activity

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	LessonID     *string
	ActivityType *ActivityType
	Limit        int
	Offset       int
}

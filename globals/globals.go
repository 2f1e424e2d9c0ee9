package globals

type contextKey string

const (
	UserIDKey  contextKey = "userId"
	ParamIDKey contextKey = "params"
)

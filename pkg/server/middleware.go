package server

// AccessLog logs one line per handled request at debug level
type AccessLog struct{}

func (AccessLog) Before(ctx Ctx) error { return nil }

func (AccessLog) After(ctx Ctx) error {
	ctx.Logger().Debug("request", "status", ctx.StatusCode())
	return nil
}

// NoStore disables browser caching, used while serving drafts of the site
type NoStore struct{}

func (NoStore) Before(ctx Ctx) error {
	ctx.SetHeader("Cache-Control", "no-store")
	return nil
}

func (NoStore) After(ctx Ctx) error { return nil }

// MethodGuard rejects anything but GET and HEAD
type MethodGuard struct{}

func (MethodGuard) Before(ctx Ctx) error {
	switch ctx.Method() {
	case "GET", "HEAD":
		return nil
	}
	ctx.SetHeader("Allow", "GET, HEAD")
	ctx.Text(405, "Method Not Allowed")
	return Stop()
}

func (MethodGuard) After(ctx Ctx) error { return nil }

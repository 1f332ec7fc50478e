package router

// Decision is the outcome of the navigation guard.
type Decision struct {
	Allow    bool
	Redirect string
}

// Guard decides whether a navigation to the matched record chain may proceed.
// requiresAuth is checked before guest; a flag on any segment of the chain
// applies to the whole navigation.
func Guard(matched []Record, authenticated bool) Decision {
	switch {
	case some(matched, func(m Meta) bool { return m.RequiresAuth }):
		if !authenticated {
			return Decision{Redirect: RouteLogin}
		}
	case some(matched, func(m Meta) bool { return m.Guest }):
		if authenticated {
			return Decision{Redirect: RouteDashboard}
		}
	}
	return Decision{Allow: true}
}

func some(matched []Record, pred func(Meta) bool) bool {
	for _, r := range matched {
		if pred(r.Meta) {
			return true
		}
	}
	return false
}

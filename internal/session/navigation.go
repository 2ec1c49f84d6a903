package session

// Navigator moves the client to another screen.
type Navigator interface {
	Navigate(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// NavigationEffect sends the client to its role's dashboard on sign-in and
// to the welcome screen on sign-out. Other events do not navigate.
func NavigationEffect(nav Navigator) Listener {
	return func(_, next State, ch Change) {
		switch ch.Event {
		case EventSignedIn:
			nav.Navigate(DashboardPath(next.Session.Role()))
		case EventSignedOut:
			nav.Navigate(WelcomePath)
		}
	}
}

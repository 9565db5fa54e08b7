// Package redirector decides whether a request for a legacy URL should be
// redirected, and where to.
//
// A Resolver evaluates an ordered list of rules against the request path
// and query. The first rule that matches decides the outcome; later rules
// are not consulted. The default order is:
//
//  1. file shadow: a real file at the path disables redirection
//  2. /viewtopic.php?t=<topic>[&c=<comment>]
//  3. /forums/forum/<id>/topic/create
//  4. /system/<slug>-<id>/games
//  5. exact entries of the redirect table
//  6. pattern entries of the redirect table ("/game/{id}")
//
// Resolution never fails. Lookup errors, malformed captures and panics in
// collaborators all produce a NotFound outcome; they are reported to the
// optional ErrorFunc so callers can log them.
//
//	table, err := redirector.NewTable([]redirector.TableEntry{
//	    {Path: "/gameList.php", Target: "/system/{c}/games"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := redirector.New(redirector.Config{
//	    Files:   redirector.DirChecker{FS: os.DirFS("public")},
//	    Forums:  store,
//	    Systems: store,
//	    Topics:  redirector.MustRouteFormatter(redirector.DefaultTopicRoute, ""),
//	    Table:   table,
//	})
//
//	out := r.ResolveRaw(ctx, "/gameList.php", "c=4")
//	if out.IsRedirect() {
//	    http.Redirect(w, req, out.Target, http.StatusMovedPermanently)
//	}
//
// Placeholders left unfilled in a target's query are dropped along with
// their parameter. One left in the path or fragment makes the outcome
// NotFound, so "/gameList.php" without c does not redirect.
package redirector

// Package api wraps the Sstu-DB backend endpoints in typed services.
//
// Every call goes through a client.Client, so tokens are attached and refreshed
// transparently. Services that establish or change the profile keep the session
// in sync: Login and Register store the returned user and token pair, Profile and
// UpdateProfile merge the fresh profile into the session user.
//
//	svc := api.New(c)
//	user, err := svc.Auth.Login(ctx, "student@sstu.ru", "secret")
//	if err != nil {
//		return err
//	}
//
//	tree, err := svc.Branches.Tree(ctx)
//	if err != nil {
//		return err
//	}
//	api.SortTree(tree, language.Russian)
//
// List endpoints backed by DRF pagination return a Page; action endpoints return
// plain slices.
package api

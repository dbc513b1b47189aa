// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

/*
Package auth provides JWT authentication for the HTTP API.

Two modes are supported, selected by security.auth_mode:

  - none: every request is treated as an anonymous administrator
  - jwt: requests carry an HS256 token in the Authorization header
    ("Bearer <token>") or in the "token" cookie

Tokens are issued by JWTManager.GenerateToken (the rulectl token command uses
it for operators) and carry the subject and role. Mining and rule paging
endpoints require the admin role; suggestion and ingestion endpoints accept
any authenticated caller.

Usage:

	mw, err := auth.NewMiddleware(&cfg.Security)
	if err != nil {
	    return err
	}
	r.With(mw.Authenticate, mw.RequireRole(auth.RoleAdmin)).Post("/recommend-service", h.GenerateRules)
*/
package auth

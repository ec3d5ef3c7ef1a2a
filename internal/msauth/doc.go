// Package msauth provides the credential boundary for Microsoft Graph
// calls: the short-lived bearer credential, the TokenProvider abstraction
// the sync engine depends on, and the Azure AD OAuth flow that backs the
// file-based provider.
//
// The sync engine never refreshes credentials itself; it reads the
// current credential from a TokenProvider at call time and treats an
// expired or missing credential as unauthenticated.
package msauth

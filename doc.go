// Package guard implements the request trust gateway for the clinic
// backend: bearer token verification, hierarchical role authorization,
// and temporary credential issuance.
//
// Verification and authorization:
//   - TokenService signs and validates JWTs against a single pinned
//     signing algorithm. Verifier turns a raw Authorization header into
//     a Principal or a typed unauthenticated error.
//   - Authorizer evaluates a per route Policy against the Principal's
//     role using an immutable RoleRanking. Strict policies require an
//     exact role match; non strict policies let a higher ranked role
//     satisfy the weakest allowed role.
//
// Audit sinks:
//   - AuditSink receives one event per denied request plus malformed
//     token events. Sinks can run behind AuditDispatcher so a slow
//     backend never delays the verdict. BunAuditSink persists events
//     through the shared repositories.
//
// Credential issuance:
//   - GenerateTemporaryCredential builds temporary passwords with
//     guaranteed character class coverage and a secure shuffle.
//     IssueTemporaryCredentialHandler wraps generation, hashing, and
//     persistence into one transactional command.
package guard

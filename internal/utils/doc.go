// Package utils provides small helpers shared across packages.
//
//   - IsValidEmail: checks an address has the local-part@domain.tld shape
//     before any connection is opened for it
package utils

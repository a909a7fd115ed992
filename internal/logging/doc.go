// Package logger provides levelled logging for tatua commands.
//
// Output is controlled by two flags:
//
//   - --verbose: shows info and warning messages
//   - --debug: shows everything, including debug and error details
//
// Without flags only WarnfAlways output appears; user-facing results are
// printed by the commands themselves.
//
//	Logger.Infof()           // --verbose or --debug
//	Logger.Debugf()          // --debug
//	Logger.Warnf()           // --verbose or --debug
//	Logger.WarnfAlways()     // always
//	Logger.Errorf()          // --debug
//	Logger.ErrorfAndReturn() // Errorf, then returns the error
//
// Zap hands the mailer a zap logger that is only active under --debug.
package logger

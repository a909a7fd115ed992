// Package templates loads email bodies and fills recipient placeholders.
//
// Bodies are HTML files, or Markdown files (.md) rendered with goldmark and
// sanitized with bluemonday. Placeholders are bracketed tokens such as
// [First Name]; which ones apply depends on the template name.
package templates

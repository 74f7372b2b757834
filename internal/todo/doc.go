// Package todo holds the records produced by a scan and their JSON export.
//
// A Record is one matched comment line. An Index groups records by the
// file they were found in, keeping the order in which files were first
// seen and the line order within each file.
//
// The JSON export (written with --json) looks like:
//
//	{
//	  "schema_version": 1,
//	  "filetype": "py",
//	  "files": [
//	    {
//	      "path": "pkg/a.py",
//	      "todos": [
//	        {"line": 2, "comment": "# TODO fix this", "context": "x = 1\n# TODO fix this\ny = 2\n"}
//	      ]
//	    }
//	  ]
//	}
//
// # Validation
//
// Exports are checked against a bundled JSON Schema (draft 2020-12) before
// they are written. Errors carry a dot path such as "files[0].todos[1].line".
//
// # File Format
//
// When writing exports, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - Files and todos in index order
package todo

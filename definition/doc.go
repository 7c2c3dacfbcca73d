// Package definition loads named pipelines from YAML files.
//
// A definitions file maps pipeline names to an ordered list of stages, each
// naming a registered command with its options and operands:
//
//	pipelines:
//	  top-errors:
//	    description: most frequent error lines
//	    stages:
//	      - command: grep
//	        options: [ignoreCase]
//	        operands: ["error"]
//	      - command: sort
//	      - command: uniq
//	        options: [count]
//
// ${VAR} references are replaced with environment values before parsing.
// Unset variables are left as written.
package definition

// Package workspace manages multi-repository workspaces.
//
// A workspace is a directory holding several independent git repositories,
// a shared specs directory, and routing conventions, described by
// <root>/.specify/workspace.yml:
//
//	version: 1
//	name: shop
//	specs_dir: specs
//	repos:
//	  - name: backend
//	    path: backend
//	    aliases: [backend, api]
//	conventions:
//	  prefix_rules:
//	    - prefix: backend-
//	      repos: [backend]
//	  suffix_rules:
//	    - suffix: -api
//	      repos: [backend]
//	  default_repo: ""
//	  ambiguous_prompt: true
//
// Repository paths are stored relative to the root with forward slashes so
// the file can be committed and shared.
package workspace

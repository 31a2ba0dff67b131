/*
	Package def defines the document types of the keepr engine: step
	identity (signatures and parameter values), workflow snapshot and
	manifest documents, pipeline config files, and the error categories
	used across the project.

	Types here are serializable and dumb; behavior lives in the core
	packages.  Anything that appears in a file on disk or in an error
	you might switch on is defined here.
*/
package def

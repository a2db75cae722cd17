/*
Package buildspec turns loosely structured command line strings into a
typed description of one RPM package.

Each argument class has a small dedicated parser: file entries use
"<source-path>:<dest-path>", dependencies use "<name> [<op> <version>]"
and changelog entries use "<author>:<content>:<yyyy-mm-dd>". Directory
mappings are expanded by WalkDirectory into one FileSpec per file.
Assemble runs all of them over an Options value and returns a complete
BuildSpec, or the first failure as an *Error carrying the offending
input.
*/
package buildspec

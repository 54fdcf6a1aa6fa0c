// compileinfoprint is imported for the side effect of printing the pairperm
// build banner to os.Stderr, so that logs record which build produced them.
package compileinfoprint

import "github.com/carbocation/pairperm/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}

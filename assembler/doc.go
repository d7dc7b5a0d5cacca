/*

Process of assembling

Assembly Text ->
	tokenize ->
Jars (jar) ->
	parse ->
Instructions, Data, Symbols, Diagnostics (ir, diag) ->
	decode ->
Binary Object (LSD)

Instructions, Symbols, Diagnostics ->
	listing ->
Listing File

*/
package assembler

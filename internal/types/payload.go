package types

// DataMap describes the record layout of one payload sample store. DataOrder
// is a whitespace separated list of printf style type tokens (%f, %d, %u,
// %i, %hi, %s) giving the binary layout of a record; VarNames lists the
// matching field names. Size is the record size in bytes and must not exceed
// PageSize.
type DataMap struct {
	Table    string        // Store name, used by the database backend
	Size     uint16        // Record size in bytes
	SysIndex StatusAddress // Status variable holding the next write index
	DataOrder string       // Field type tokens, e.g. "%u %f %f"
	VarNames  string       // Field names, e.g. "timestamp obc_temp_1 obc_temp_2"
}

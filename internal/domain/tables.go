package domain

var Tables = []interface{}{
	// System
	&SysOpr{},
	&SysOprLog{},
	// Dashboard
	&Customer{},
	&Invoice{},
	&Revenue{},
}

package designSource

import "primerdesign/api/models/constants"

const (
	Remote constants.DesignSource = "remote"
	Local  constants.DesignSource = "local"
)

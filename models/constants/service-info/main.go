package serviceInfo

import "fmt"

type ServiceInfo string

var (
	SERVICE_NAME        ServiceInfo = "Primer Design Service"
	SERVICE_WELCOME     ServiceInfo = "Welcome to the Primer Design API!"
	SERVICE_DESCRIPTION ServiceInfo = "Designs, validates and ranks PCR primer pairs for a gene or nucleotide sequence."

	SERVICE_ARTIFACT    ServiceInfo = "primers"
	SERVICE_VERSION     ServiceInfo = "0.1.0"
	SERVICE_TYPE_NO_VER ServiceInfo = ServiceInfo(fmt.Sprintf("org.primerdesign:%s", SERVICE_ARTIFACT))
	SERVICE_ID          ServiceInfo = SERVICE_TYPE_NO_VER
	SERVICE_TYPE        ServiceInfo = ServiceInfo(fmt.Sprintf("%s:%s", SERVICE_TYPE_NO_VER, SERVICE_VERSION))
)

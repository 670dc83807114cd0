package constants

// EgyptGovernorates is the closed set of region codes an event or user can
// be located in. Values are stored lowercase.
var EgyptGovernorates = []string{
	"cairo",
	"giza",
	"alexandria",
	"dakahlia",
	"red sea",
	"beheira",
	"faiyum",
	"gharbia",
	"ismailia",
	"monufia",
	"minya",
	"qalyubia",
	"new valley",
	"suez",
	"aswan",
	"asyut",
	"beni suef",
	"port said",
	"damietta",
	"sharqia",
	"south sinai",
	"kafr el sheikh",
	"matrouh",
	"luxor",
	"qena",
	"north sinai",
	"sohag",
}

var governorateSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(EgyptGovernorates))
	for _, g := range EgyptGovernorates {
		set[g] = struct{}{}
	}
	return set
}()

func IsValidGovernorate(governorate string) bool {
	_, ok := governorateSet[governorate]
	return ok
}

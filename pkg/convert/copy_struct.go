package convert

import (
	"time"

	"github.com/haierkeys/locket-service/pkg/timex"

	"github.com/jinzhu/copier"
)

// timeConverters turn domain time values into the JSON time wrapper.
var timeConverters = []copier.TypeConverter{
	{
		SrcType: time.Time{},
		DstType: timex.Time{},
		Fn: func(src interface{}) (interface{}, error) {
			return timex.Time(src.(time.Time)), nil
		},
	},
	{
		SrcType: &time.Time{},
		DstType: timex.Time{},
		Fn: func(src interface{}) (interface{}, error) {
			t := src.(*time.Time)
			if t == nil {
				return timex.Time{}, nil
			}
			return timex.Time(*t), nil
		},
	},
}

// Copy 把 src 中同名字段 (以及同名方法) 复制到 dst
// Extra converters run alongside the time ones.
func Copy(dst, src interface{}, converters ...copier.TypeConverter) error {
	all := make([]copier.TypeConverter, 0, len(timeConverters)+len(converters))
	all = append(all, timeConverters...)
	all = append(all, converters...)
	return copier.CopyWithOption(dst, src, copier.Option{Converters: all})
}

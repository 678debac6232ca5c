package engine

// Config 计价引擎配置
// 法定费率(MPF/HMF)与业务常量集中在此注入, 调整费率只改配置不改代码
type Config struct {
	// 体积重
	VolumetricDivisor float64 // 体积重换算除数 cm³/kg, 行业空运标准 5000, 部分渠道用 6000
	JPPostVolumeRatio float64 // 日本邮政规则: 体积重超过实重该倍数才按体积重计费

	// 附加费默认值(查不到生效行时的软回退)
	DefaultFuelRate     float64 // 默认燃油费率 基础运费的比例
	DefaultDemandAmount float64 // 默认旺季附加费(USD)
	DefaultRemoteFee    float64 // 默认偏远地区附加费(USD)

	// 美国清关费用
	MPFRate       float64 // Merchandise Processing Fee 费率
	MPFMin        float64 // MPF 法定下限(USD)
	MPFMax        float64 // MPF 法定上限(USD)
	HMFRate       float64 // Harbor Maintenance Fee 费率 仅海运
	DDPServiceFee float64 // DDP 清关服务费(USD)

	// 操作费边界
	DDPHandlingMin float64 // DDP 操作费下限(USD)
	DDPHandlingMax float64 // DDP 操作费上限(USD)
	DDUHandlingMin float64 // DDU 操作费下限(USD)
	DDUHandlingMax float64 // DDU 操作费上限(USD)

	// 合规上限
	ShippingDisplayCap float64 // 展示运费不得超过真实成本的倍数
	HandlingPriceCap   float64 // 操作费不得超过售价的比例

	// 批量生成
	BatchWorkers int // 并发工作协程数
}

// DefaultConfig 当前生效的默认配置
// MPF 费率与上下限为美国海关现行法定值, 会周期性调整
func DefaultConfig() Config {
	return Config{
		VolumetricDivisor: 5000,
		JPPostVolumeRatio: 2.0,

		DefaultFuelRate:     0.15,
		DefaultDemandAmount: 0,
		DefaultRemoteFee:    0,

		MPFRate:       0.003464,
		MPFMin:        27.75,
		MPFMax:        528.33,
		HMFRate:       0.00125,
		DDPServiceFee: 15.0,

		DDPHandlingMin: 10.0,
		DDPHandlingMax: 25.0,
		DDUHandlingMin: 5.0,
		DDUHandlingMax: 15.0,

		ShippingDisplayCap: 2.5,
		HandlingPriceCap:   0.25,

		BatchWorkers: 8,
	}
}
